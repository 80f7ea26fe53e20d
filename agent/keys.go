package agent

import "strconv"

// Blackboard keys shared by the leaves and the controller.
const (
	KeyAgentPose     = "agentPose"
	KeyTargets       = "targets"
	KeyCurrentTarget = "currentTarget"
	KeyPatrolTarget  = "patrolTarget"
	KeyTracked       = "tracked"

	KeyMissionArmed = "missionArmed"
	KeyChasing      = "chasing"

	keyDonePrefix = "patrolDone"
)

// DoneKey is the completion flag for patrol waypoint i.
func DoneKey(i int) string {
	return keyDonePrefix + strconv.Itoa(i)
}

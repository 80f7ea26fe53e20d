package component

import "github.com/milk9111/sentinel/agent"

// Brain runs one agent's behavior tree.
type Brain struct {
	Controller *agent.Controller
}

var BrainComponent = NewComponent[Brain]()

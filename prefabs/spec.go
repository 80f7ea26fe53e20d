package prefabs

import (
	"fmt"
	"math"

	"github.com/milk9111/sentinel/agent"
	"github.com/milk9111/sentinel/common"
	"github.com/milk9111/sentinel/navigation"
	"gopkg.in/yaml.v3"
)

const (
	SentinelFile   = "sentinel.yaml"
	GridFile       = "grid.yaml"
	PathfinderFile = "pathfinder.yaml"
	ScenarioFile   = "scenario.yaml"
)

// LoadSpec reads a prefab by name, preferring the on-disk copy.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return decode[T](filename, data)
}

// LoadSpecFile reads a spec from an explicit path.
func LoadSpecFile[T any](path string) (T, error) {
	var zero T
	data, err := LoadFile(path)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return decode[T](path, data)
}

func decode[T any](name string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	return spec, nil
}

type GridSpec struct {
	Name          string      `yaml:"name"`
	Center        common.Vec3 `yaml:"center"`
	Yaw           float64     `yaml:"yaw"`
	Extent        common.Vec3 `yaml:"extent"`
	NodeRadius    float64     `yaml:"node_radius"`
	UnitRadius    float64     `yaml:"unit_radius"`
	Confirmations int         `yaml:"confirmations"`
	// FitFloor sizes the grid from the scenario's first floor.
	FitFloor       bool    `yaml:"fit_floor"`
	Height         float64 `yaml:"height"`
	RealTime       bool    `yaml:"real_time"`
	UpdateInterval float64 `yaml:"update_interval"`
}

// Frame returns the grid pose and extent, fitted to floor when asked to.
func (s GridSpec) Frame(floor *FloorSpec) (common.Pose, common.Vec3) {
	if s.FitFloor && floor != nil {
		return navigation.GridFromFloor(floor.Floor(), s.Height)
	}
	return common.Pose{Position: s.Center, Rotation: common.QuatFromYaw(degrees(s.Yaw))}, s.Extent
}

func (s GridSpec) Config() navigation.GridConfig {
	return navigation.GridConfig{
		NodeRadius:    s.NodeRadius,
		UnitRadius:    s.UnitRadius,
		Confirmations: s.Confirmations,
	}
}

type CostSpec struct {
	Straight     int `yaml:"straight"`
	Diagonal     int `yaml:"diagonal"`
	LongDiagonal int `yaml:"long_diagonal"`
}

type PathfinderSpec struct {
	UpdateInterval      float64  `yaml:"update_interval"`
	TargetMoveThreshold float64  `yaml:"target_move_threshold"`
	PathTolerance       float64  `yaml:"path_tolerance"`
	Costs               CostSpec `yaml:"costs"`
}

func (s PathfinderSpec) Config() navigation.PathfinderConfig {
	return navigation.PathfinderConfig{
		Costs: navigation.Costs{
			Straight:     s.Costs.Straight,
			Diagonal:     s.Costs.Diagonal,
			LongDiagonal: s.Costs.LongDiagonal,
		},
		UpdateInterval:      s.UpdateInterval,
		TargetMoveThreshold: s.TargetMoveThreshold,
		PathTolerance:       s.PathTolerance,
	}
}

type VisionSpec struct {
	Range float64 `yaml:"range"`
	// FOV is the full cone angle in degrees.
	FOV float64 `yaml:"fov"`
}

type SentinelSpec struct {
	Name        string     `yaml:"name"`
	WalkSpeed   float64    `yaml:"walk_speed"`
	RunSpeed    float64    `yaml:"run_speed"`
	SightRadius float64    `yaml:"sight_radius"`
	WaitMin     float64    `yaml:"wait_min"`
	WaitMax     float64    `yaml:"wait_max"`
	Patrol      string     `yaml:"patrol"`
	Gate        string     `yaml:"gate"`
	GateScript  string     `yaml:"gate_script"`
	ScriptKeys  []string   `yaml:"script_keys"`
	Vision      VisionSpec `yaml:"vision"`
}

// Options converts the spec to controller options. script is the tengo
// gate source, if any.
func (s SentinelSpec) Options(script []byte) agent.Options {
	return agent.Options{
		Name:        s.Name,
		WalkSpeed:   s.WalkSpeed,
		RunSpeed:    s.RunSpeed,
		SightRadius: s.SightRadius,
		WaitMin:     s.WaitMin,
		WaitMax:     s.WaitMax,
		Patrol:      agent.PatrolLayout(s.Patrol),
		Gate:        agent.GateMode(s.Gate),
		GateScript:  script,
		ScriptKeys:  s.ScriptKeys,
	}
}

// FOVRadians returns the vision cone angle, or zero when vision is off.
func (s SentinelSpec) FOVRadians() float64 {
	return degrees(s.Vision.FOV)
}

type FloorSpec struct {
	Center common.Vec3 `yaml:"center"`
	Width  float64     `yaml:"width"`
	Depth  float64     `yaml:"depth"`
	Yaw    float64     `yaml:"yaw"`
}

func (s FloorSpec) Floor() navigation.Floor {
	return navigation.Floor{Center: s.Center, Width: s.Width, Depth: s.Depth, Yaw: degrees(s.Yaw)}
}

type ObstacleSpec struct {
	Center   common.Vec3 `yaml:"center"`
	Size     common.Vec3 `yaml:"size"`
	AppearAt float64     `yaml:"appear_at"`
	VanishAt float64     `yaml:"vanish_at"`
}

type PlayerSpec struct {
	Position common.Vec3   `yaml:"position"`
	Route    []common.Vec3 `yaml:"route"`
	Speed    float64       `yaml:"speed"`
	Loop     bool          `yaml:"loop"`
}

type SentinelPlacement struct {
	// Spec names a sentinel prefab. Empty means SentinelFile.
	Spec      string         `yaml:"spec"`
	Overrides map[string]any `yaml:"overrides"`
	Position  common.Vec3    `yaml:"position"`
	Yaw       float64        `yaml:"yaw"`
	Waypoints []common.Vec3  `yaml:"waypoints"`
}

type MissionSpec struct {
	Solved bool `yaml:"solved"`
	// SolveAt marks the first objective solved after this many seconds.
	SolveAt float64 `yaml:"solve_at"`
}

type ScenarioSpec struct {
	Name string `yaml:"name"`
	// GridSpec and PathfinderSpec name prefab files used when the inline
	// sections are absent.
	GridSpec       string              `yaml:"grid_spec"`
	PathfinderSpec string              `yaml:"pathfinder_spec"`
	Grid           *GridSpec           `yaml:"grid"`
	Pathfinder     *PathfinderSpec     `yaml:"pathfinder"`
	Floors         []FloorSpec         `yaml:"floors"`
	Obstacles      []ObstacleSpec      `yaml:"obstacles"`
	Player         *PlayerSpec         `yaml:"player"`
	Sentinels      []SentinelPlacement `yaml:"sentinels"`
	Mission        MissionSpec         `yaml:"mission"`
}

// ResolveGrid returns the inline grid section or loads the named prefab.
func (s ScenarioSpec) ResolveGrid() (GridSpec, error) {
	if s.Grid != nil {
		return *s.Grid, nil
	}
	return LoadSpec[GridSpec](orDefault(s.GridSpec, GridFile))
}

func (s ScenarioSpec) ResolvePathfinder() (PathfinderSpec, error) {
	if s.Pathfinder != nil {
		return *s.Pathfinder, nil
	}
	return LoadSpec[PathfinderSpec](orDefault(s.PathfinderSpec, PathfinderFile))
}

// ResolveSentinel loads the placement's prefab and applies its overrides.
func (p SentinelPlacement) ResolveSentinel() (SentinelSpec, error) {
	name := orDefault(p.Spec, SentinelFile)
	base, err := LoadSpec[SentinelSpec](name)
	if err != nil {
		return SentinelSpec{}, err
	}
	spec, err := MergeSpec(base, p.Overrides)
	if err != nil {
		return SentinelSpec{}, fmt.Errorf("prefabs: overrides for %s: %w", name, err)
	}
	return spec, nil
}

func orDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围、步长和精度
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
}

// Tuning holds the microtraffic engine's wire-visible constants: each
// field defaults to the value named in the engine's own documentation
// and can be overridden per deployment. Zero values are treated as
// "not set" and backfilled by NewRuntimeConfig from the package's
// defaults, so a partially specified YAML tuning block still produces a
// usable engine.
type Tuning struct {
	// UnrealisticSlowdown divides the dt every lane Tick receives, so
	// simulated motion runs this many times slower than the external clock.
	UnrealisticSlowdown float64 `yaml:"unrealistic_slowdown,omitempty"`
	// TrafficLogicThrottle: a lane only runs the car-following pass on
	// ticks where instant % TrafficLogicThrottle == laneOffset.
	TrafficLogicThrottle int32 `yaml:"traffic_logic_throttle,omitempty"`
	// PathfindingThrottle: a lane refreshes its routing table on ticks
	// where instant % PathfindingThrottle == laneOffset.
	PathfindingThrottle int32 `yaml:"pathfinding_throttle,omitempty"`
	// SignalSlotTicks is how many ticks a single entry of a lane's fixed
	// boolean timings array holds for.
	SignalSlotTicks int32 `yaml:"signal_slot_ticks,omitempty"`
	// YellowLookaheadTicks is how far ahead (in ticks) the signal peeks to
	// derive yellow_to_green/yellow_to_red from the upcoming slot.
	YellowLookaheadTicks int32 `yaml:"yellow_lookahead_ticks,omitempty"`
	// TransferHandoffLookahead: a car on a Lane whose next hop is a
	// Transfer overlap is handed to the TransferLane only once it is past
	// the overlap's start and within this distance of the overlap's end.
	TransferHandoffLookahead float64 `yaml:"transfer_handoff_lookahead,omitempty"`
	// CarLeaderSafety scales desired following gap against a same-lane
	// car ahead.
	CarLeaderSafety float64 `yaml:"car_leader_safety,omitempty"`
	// ObstacleSafety scales desired following gap against a projected
	// cross-lane obstacle (more cautious than a same-lane leader).
	ObstacleSafety float64 `yaml:"obstacle_safety,omitempty"`
	// TransferSafety scales desired following gap on a TransferLane.
	TransferSafety float64 `yaml:"transfer_safety,omitempty"`
}

// Config YAML配置文件的根结构
type Config struct {
	Control Control `yaml:"control"`
	Tuning  Tuning  `yaml:"tuning,omitempty"`
}

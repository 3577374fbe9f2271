package config

// defaults mirrors the engine's documented tuning values; used to
// backfill any Tuning field left at its YAML zero value.
var defaults = Tuning{
	UnrealisticSlowdown:      20.0,
	TrafficLogicThrottle:     30,
	PathfindingThrottle:      10,
	SignalSlotTicks:          10,
	YellowLookaheadTicks:     100,
	TransferHandoffLookahead: 300,
	CarLeaderSafety:          2.0,
	ObstacleSafety:           4.0,
	TransferSafety:           1.0,
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
type RuntimeConfig struct {
	All    Config  // 全部配置
	C      Control // 全局控制配置
	Tuning Tuning  // 补全默认值后的调参配置
}

// NewRuntimeConfig 根据配置初始化全局变量
// 功能：创建运行时配置对象，补全未设置的调参字段
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{
		All:    config,
		C:      config.Control,
		Tuning: backfill(config.Tuning),
	}
	return rc
}

func backfill(t Tuning) Tuning {
	if t.UnrealisticSlowdown == 0 {
		t.UnrealisticSlowdown = defaults.UnrealisticSlowdown
	}
	if t.TrafficLogicThrottle == 0 {
		t.TrafficLogicThrottle = defaults.TrafficLogicThrottle
	}
	if t.PathfindingThrottle == 0 {
		t.PathfindingThrottle = defaults.PathfindingThrottle
	}
	if t.SignalSlotTicks == 0 {
		t.SignalSlotTicks = defaults.SignalSlotTicks
	}
	if t.YellowLookaheadTicks == 0 {
		t.YellowLookaheadTicks = defaults.YellowLookaheadTicks
	}
	if t.TransferHandoffLookahead == 0 {
		t.TransferHandoffLookahead = defaults.TransferHandoffLookahead
	}
	if t.CarLeaderSafety == 0 {
		t.CarLeaderSafety = defaults.CarLeaderSafety
	}
	if t.ObstacleSafety == 0 {
		t.ObstacleSafety = defaults.ObstacleSafety
	}
	if t.TransferSafety == 0 {
		t.TransferSafety = defaults.TransferSafety
	}
	return t
}

package clock

import (
	"fmt"

	"github.com/citybound-go/microtraffic/utils/config"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的时间推进
type Clock struct {
	DT         float64 // 每个模拟步时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前内部步数
}

// New 根据配置创建新的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Step advances the clock by one tick and reports whether the run is
// still within [START_STEP, END_STEP).
func (c *Clock) Step() bool {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
	return c.InternalStep < c.END_STEP
}

// Instant is the current tick, the unit lane actors throttle and stagger
// against (spec §3: do_traffic mod 30, do_pathfinding_update mod 10).
func (c *Clock) Instant() int64 {
	return int64(c.InternalStep)
}

// String 获取时钟的字符串表示 (HH:MM:SS)
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

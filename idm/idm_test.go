package idm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citybound-go/microtraffic/entity"
	"github.com/citybound-go/microtraffic/idm"
)

func follower(v float64) entity.Obstacle {
	return entity.Obstacle{Position: 0, Velocity: v, MaxVelocity: 20}
}

func TestFarAheadIsUnconstrained(t *testing.T) {
	a := idm.Acceleration(follower(10), entity.FarAhead(), 2.0)
	assert.True(t, math.IsInf(a, 1))
}

func TestMonotoneInGap(t *testing.T) {
	car := follower(10)
	near := entity.Obstacle{Position: 15, Velocity: 10, MaxVelocity: 20}
	far := entity.Obstacle{Position: 100, Velocity: 10, MaxVelocity: 20}

	aNear := idm.Acceleration(car, near, 2.0)
	aFar := idm.Acceleration(car, far, 2.0)
	assert.Less(t, aNear, aFar, "a larger gap should never produce a smaller acceleration")
}

func TestMonotoneInLeaderVelocity(t *testing.T) {
	car := follower(10)
	slowLeader := entity.Obstacle{Position: 30, Velocity: 2, MaxVelocity: 20}
	fastLeader := entity.Obstacle{Position: 30, Velocity: 15, MaxVelocity: 20}

	aSlow := idm.Acceleration(car, slowLeader, 2.0)
	aFast := idm.Acceleration(car, fastLeader, 2.0)
	assert.Less(t, aSlow, aFast)
}

func TestDivergesNearZeroGap(t *testing.T) {
	car := follower(10)
	touching := entity.Obstacle{Position: 0.01, Velocity: 0, MaxVelocity: 20}
	a := idm.Acceleration(car, touching, 2.0)
	assert.Less(t, a, -5.0, "acceleration should swing hard negative as the gap closes")
}

func TestAsymptotesToFreeFlowWhenFarAndFast(t *testing.T) {
	car := follower(5)
	distantFastLeader := entity.Obstacle{Position: 1e6, Velocity: 1e6, MaxVelocity: 20}
	freeFlowOnly := idm.Acceleration(car, entity.FarAhead(), 2.0)
	a := idm.Acceleration(car, distantFastLeader, 2.0)
	assert.True(t, math.IsInf(freeFlowOnly, 1))
	assert.Greater(t, a, 0.0)
}

func TestHigherSafetyWidensDesiredGap(t *testing.T) {
	car := follower(10)
	leader := entity.Obstacle{Position: 20, Velocity: 10, MaxVelocity: 20}

	aCarSafety := idm.Acceleration(car, leader, 2.0)
	aObstacleSafety := idm.Acceleration(car, leader, 4.0)
	assert.LessOrEqual(t, aObstacleSafety, aCarSafety, "a more cautious safety factor should never relax acceleration")
}

func TestStoppedAtZeroGapDesiredIsBounded(t *testing.T) {
	car := follower(0)
	leader := entity.Obstacle{Position: 2, Velocity: 0, MaxVelocity: 20}
	a := idm.Acceleration(car, leader, 2.0)
	assert.False(t, math.IsInf(a, -1))
}

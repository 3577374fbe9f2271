// Package idm implements the car-following law spec §4.1 calls
// "intelligent-driver acceleration": a pure function from a follower, a
// leader obstacle, and a safety factor to a longitudinal acceleration.
// Grounded on the standard intelligent driver model (Treiber et al.); the
// exact coefficients are not prescribed by the spec, only the contract
// (monotone in gap and leader velocity, divergent near zero gap,
// asymptotic to free-flow acceleration when the leader is far and fast).
package idm

import (
	"math"

	"github.com/citybound-go/microtraffic/entity"
)

const (
	// maxAcceleration is a car's free-flow acceleration capability.
	maxAcceleration = 1.5
	// comfortableBraking bounds the deceleration term's denominator.
	comfortableBraking = 3.0
	// minGap is the desired bumper-to-bumper gap at a standstill.
	minGap = 2.0
	// timeHeadway is the desired following time, in seconds.
	timeHeadway = 1.5
	// velocityExponent is the IDM free-flow exponent.
	velocityExponent = 4.0
	// hardBrake is the acceleration magnitude returned as the gap closes
	// on zero — a strong, bounded brake rather than an unbounded
	// divergence, matching spec's "diverges toward a hard-brake
	// magnitude" rather than literally to -Inf.
	hardBrake = -8.0
)

// Acceleration returns the longitudinal acceleration `car` should apply
// given `leader` ahead of it and a `safety` factor scaling how much extra
// following distance this kind of leader demands (2.0 for a car ahead on
// a Lane, 4.0 for a generic projected obstacle, 1.0 on a TransferLane).
func Acceleration(car entity.Obstacle, leader entity.Obstacle, safety float64) float64 {
	if math.IsInf(leader.Position, 1) {
		return math.Inf(1)
	}

	gap := leader.Position - car.Position
	if gap <= 0 {
		return hardBrake
	}

	freeFlowTerm := math.Pow(car.Velocity/math.Max(car.MaxVelocity, 1e-9), velocityExponent)

	deltaV := car.Velocity - leader.Velocity
	desiredGap := safety * (minGap + car.Velocity*timeHeadway)
	desiredGap += safety * car.Velocity * deltaV / (2 * math.Sqrt(maxAcceleration*comfortableBraking))
	if desiredGap < 0 {
		desiredGap = 0
	}

	gapTerm := desiredGap / gap
	a := maxAcceleration * (1 - freeFlowTerm - gapTerm*gapTerm)
	if a < hardBrake {
		return hardBrake
	}
	return a
}

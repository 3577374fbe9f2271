package entity

import "math"

// Obstacle is a moving point along a lane's arc length: something a
// following car must react to, whether or not it is itself a car.
type Obstacle struct {
	Position    float64
	Velocity    float64
	MaxVelocity float64
}

// FarAhead is the sentinel leader used when nothing is ahead: it never
// constrains acceleration.
func FarAhead() Obstacle {
	return Obstacle{Position: math.Inf(1), Velocity: math.Inf(1), MaxVelocity: math.Inf(1)}
}

// FarBehind is the sentinel obstacle used when nothing is behind.
func FarBehind() Obstacle {
	return Obstacle{Position: math.Inf(-1), Velocity: 0, MaxVelocity: 20}
}

// OffsetBy returns a copy shifted in position only, e.g. when translating
// between a lane's own arc coordinates and a neighbor's at a handoff.
func (o Obstacle) OffsetBy(delta float64) Obstacle {
	o.Position += delta
	return o
}

// SourcedObstacle is an Obstacle tagged with the lane it was projected
// from, so a later add_obstacles from the same sender can replace it.
type SourcedObstacle struct {
	Obstacle Obstacle
	From     LaneLikeID
}

package transferlane

import (
	"math"
	"sort"

	"github.com/citybound-go/microtraffic/entity"
	"github.com/citybound-go/microtraffic/idm"
)

// Tick runs one simulation step (spec §4.4, steps a-f).
func (t *TransferLane) Tick(dt float64, instant int64) {
	dt /= t.tuning.UnrealisticSlowdown

	t.constructionProgress += dt * 400

	throttle := int64(t.tuning.TrafficLogicThrottle)
	self := int64(t.id)
	doTraffic := instant%throttle == self%throttle

	if doTraffic {
		t.followCars()
	}

	t.applyKinematics(dt)
	t.repairOrderOnePass()
	t.commitAndHandoff(instant)
	t.projectObstacles(instant)
}

func (t *TransferLane) followCars() {
	sort.Slice(t.leftObstacles, func(i, j int) bool { return t.leftObstacles[i].Position < t.leftObstacles[j].Position })
	sort.Slice(t.rightObstacles, func(i, j int) bool { return t.rightObstacles[i].Position < t.rightObstacles[j].Position })

	for i := range t.cars {
		car := &t.cars[i]

		var candidates []entity.Obstacle
		if i+1 < len(t.cars) {
			candidates = append(candidates, t.cars[i+1].Obstacle)
		}

		driftingLeft := car.TransferPosition < 0.3 || car.TransferAcceleration < 0
		if driftingLeft {
			if next, ok := firstAhead(t.leftObstacles, car.Position); ok {
				candidates = append(candidates, next)
			}
		}

		driftingRight := car.TransferPosition > -0.3 || car.TransferAcceleration > 0
		if driftingRight {
			if next, ok := firstAhead(t.rightObstacles, car.Position); ok {
				candidates = append(candidates, next)
			}
		}

		candidates = append(candidates, entity.FarAhead())

		dangerous := false
		acceleration := math.Inf(1)
		for _, candidate := range candidates {
			if candidate.Position < car.Position+0.1 {
				dangerous = true
				continue
			}
			a := idm.Acceleration(car.Obstacle, candidate, t.tuning.TransferSafety)
			if a < acceleration {
				acceleration = a
			}
		}

		beforeEndVelocity := (t.connectivity.Length + 1 - car.Position) / 1.5
		beforeEndAcceleration := beforeEndVelocity - car.Velocity
		if beforeEndAcceleration < acceleration {
			acceleration = beforeEndAcceleration
		}
		car.Acceleration = acceleration

		if dangerous && !car.Cancelling {
			car.TransferAcceleration = -car.TransferAcceleration
			car.Cancelling = true
		}
	}
}

// firstAhead returns the first (lowest-position) obstacle with
// position+5 > from.
func firstAhead(obstacles []entity.Obstacle, from float64) (entity.Obstacle, bool) {
	for _, o := range obstacles {
		if o.Position+5 > from {
			return o, true
		}
	}
	return entity.Obstacle{}, false
}

func (t *TransferLane) applyKinematics(dt float64) {
	for i := range t.cars {
		car := &t.cars[i]
		car.Position += dt * car.Velocity
		car.Velocity = clamp(car.Velocity+dt*car.Acceleration, 0, car.MaxVelocity)

		car.TransferPosition += dt * car.TransferVelocity
		car.TransferVelocity += dt * car.TransferAcceleration

		limit := car.Velocity / 12
		if car.TransferVelocity > limit {
			car.TransferVelocity = limit
		}
		if car.TransferVelocity < -limit {
			car.TransferVelocity = -limit
		}
	}

	for i := range t.leftObstacles {
		t.leftObstacles[i].Position += dt * t.leftObstacles[i].Velocity
	}
	for i := range t.rightObstacles {
		t.rightObstacles[i].Position += dt * t.rightObstacles[i].Velocity
	}
}

// repairOrderOnePass is spec §4.4(d): a single adjacent-swap sweep, not a
// full sort, run back-to-front to match the original.
func (t *TransferLane) repairOrderOnePass() {
	for i := len(t.cars) - 2; i >= 0; i-- {
		if t.cars[i].Position > t.cars[i+1].Position {
			t.cars[i], t.cars[i+1] = t.cars[i+1], t.cars[i]
		}
	}
}

// commitAndHandoff is spec §4.4(e).
func (t *TransferLane) commitAndHandoff(instant int64) {
	kept := t.cars[:0]
	for _, car := range t.cars {
		switch {
		case car.TransferPosition > 1 || (car.Position > t.connectivity.Length && car.TransferAcceleration > 0):
			if t.connectivity.Right != nil {
				offset := t.connectivity.Right.Start + t.connectivity.SelfToInteractionOffset(car.Position, false)
				self := t.ID()
				t.dispatcher.SendAddCar(t.connectivity.Right.Lane, car.OffsetBy(offset), &self, instant)
				continue
			}
		case car.TransferPosition < -1 || (car.Position > t.connectivity.Length && car.TransferAcceleration <= 0):
			if t.connectivity.Left != nil {
				offset := t.connectivity.Left.Start + t.connectivity.SelfToInteractionOffset(car.Position, true)
				self := t.ID()
				t.dispatcher.SendAddCar(t.connectivity.Left.Lane, car.OffsetBy(offset), &self, instant)
				continue
			}
		}
		kept = append(kept, car)
	}
	t.cars = kept
}

// projectObstacles is spec §4.4(f).
func (t *TransferLane) projectObstacles(instant int64) {
	throttle := int64(t.tuning.TrafficLogicThrottle)

	if t.connectivity.Left != nil && (instant+1)%throttle == int64(t.connectivity.Left.Lane)%throttle {
		var out []entity.Obstacle
		for _, car := range t.cars {
			if car.TransferPosition < 0.3 || car.TransferAcceleration < 0 {
				offset := t.connectivity.Left.Start + t.connectivity.SelfToInteractionOffset(car.Position, true)
				out = append(out, car.Obstacle.OffsetBy(offset))
			}
		}
		t.dispatcher.SendAddObstacles(t.connectivity.Left.Lane, out, t.ID())
	}

	if t.connectivity.Right != nil && (instant+1)%throttle == int64(t.connectivity.Right.Lane)%throttle {
		var out []entity.Obstacle
		for _, car := range t.cars {
			if car.TransferPosition > -0.3 || car.TransferAcceleration > 0 {
				offset := t.connectivity.Right.Start + t.connectivity.SelfToInteractionOffset(car.Position, false)
				out = append(out, car.Obstacle.OffsetBy(offset))
			}
		}
		t.dispatcher.SendAddObstacles(t.connectivity.Right.Lane, out, t.ID())
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package lane

import (
	"math"

	"github.com/citybound-go/microtraffic/entity"
	"github.com/citybound-go/microtraffic/idm"
)

// signalAt derives green/yellow_to_green/yellow_to_red from timings and
// instant (spec §4.3(c)). Empty timings means always green.
func (l *Lane) signalAt(instant int64) signalState {
	if len(l.timings) == 0 {
		return signalState{green: true, yellowToGreen: true, yellowToRed: true}
	}
	slot := int64(l.tuning.SignalSlotTicks)
	period := int64(len(l.timings))
	green := l.timings[(instant/slot)%period]
	yellowToGreen := l.timings[((instant+int64(l.tuning.YellowLookaheadTicks))/slot)%period]
	return signalState{green: green, yellowToGreen: yellowToGreen, yellowToRed: !yellowToGreen}
}

// Tick runs one simulation step (spec §4.3, steps a-k).
func (l *Lane) Tick(dt float64, instant int64) {
	l.lastInstant = instant
	dt /= l.tuning.UnrealisticSlowdown

	l.constructionProgress += dt * 400

	throttle := int64(l.tuning.TrafficLogicThrottle)
	pathfindThrottle := int64(l.tuning.PathfindingThrottle)
	self := int64(l.id)
	doTraffic := instant%throttle == self%throttle
	doPathfinding := instant%pathfindThrottle == self%pathfindThrottle

	state := l.signalAt(instant)
	greenChanged := !l.haveTicked || state.green != l.prevGreen
	if greenChanged || doTraffic {
		for _, in := range l.interactions {
			if in.Kind.IsPrevious() {
				l.dispatcher.SendSignalChanged(in.PartnerLane, l.ID(), state.green)
			}
		}
	}
	l.prevGreen = state.green
	l.haveTicked = true

	if doPathfinding && l.router != nil {
		l.router.UpdateRoutes(l.id, instant)
		l.routes = l.router.Routes(l.id)
	}

	if doTraffic {
		l.followCars()
	}

	l.applyKinematics(dt)
	l.repairOrder()
	l.sweepArrivals(instant)
	l.handoff(instant)
	l.projectObstacles(instant)
}

// followCars is spec §4.3(f): car-following acceleration, with a one-shot
// forward cursor over obstacles and a red-light virtual-obstacle clamp.
func (l *Lane) followCars() {
	obstacles := sortedObstacles(l.obstacles)
	cursor := 0

	for i := range l.cars {
		car := &l.cars[i]

		leader := entity.FarAhead()
		if i+1 < len(l.cars) {
			leader = l.cars[i+1].Obstacle
		}

		for cursor < len(obstacles) && obstacles[cursor].Position <= car.Position+0.1 {
			cursor++
		}
		aObstacle := math.Inf(1)
		if cursor < len(obstacles) {
			aObstacle = idm.Acceleration(car.Obstacle, obstacles[cursor], l.tuning.ObstacleSafety)
		}

		aCar := idm.Acceleration(car.Obstacle, leader, l.tuning.CarLeaderSafety)
		acceleration := math.Min(aCar, aObstacle)

		if car.NextHopInteraction != entity.NoHop {
			in := l.interactions[car.NextHopInteraction]
			if in.Kind.IsNext() && !in.Kind.Green {
				stopLine := entity.Obstacle{Position: in.Start + 2.0, Velocity: 0, MaxVelocity: 0}
				aRed := idm.Acceleration(car.Obstacle, stopLine, l.tuning.CarLeaderSafety)
				acceleration = math.Min(acceleration, aRed)
			}
		}

		car.Acceleration = acceleration
	}
}

// applyKinematics is spec §4.3(g): cars move and accelerate; obstacles
// only move (they carry no acceleration of their own).
func (l *Lane) applyKinematics(dt float64) {
	for i := range l.cars {
		car := &l.cars[i]
		car.Position += dt * car.Velocity
		car.Velocity = clamp(car.Velocity+dt*car.Acceleration, 0, car.MaxVelocity)
	}
	for i := range l.obstacles {
		l.obstacles[i].Obstacle.Position += dt * l.obstacles[i].Obstacle.Velocity
	}
}

// repairOrder is spec §4.3(h): a backward clamp enforcing no-overtake.
func (l *Lane) repairOrder() {
	for i := len(l.cars) - 2; i >= 0; i-- {
		if l.cars[i].Position > l.cars[i+1].Position {
			l.cars[i].Position = l.cars[i+1].Position
		}
	}
}

// sweepArrivals is spec §4.3(i).
func (l *Lane) sweepArrivals(instant int64) {
	if l.location == nil {
		return
	}
	kept := l.cars[:0]
	for _, car := range l.cars {
		if car.Destination.Location == *l.location && car.Position >= car.Destination.Offset {
			l.dispatcher.FinishTrip(car.Trip, entity.TripResult{Instant: instant, Fate: entity.TripSuccess})
			continue
		}
		kept = append(kept, car)
	}
	l.cars = kept
}

// handoff is spec §4.3(j): repeatedly hand the eligible car nearest the
// end of the list (the leading one) to its recorded partner, re-scanning
// after each removal.
func (l *Lane) handoff(instant int64) {
	for {
		idx := -1
		for i := len(l.cars) - 1; i >= 0; i-- {
			if l.eligibleForHandoff(l.cars[i]) {
				idx = i
				break
			}
		}
		if idx == -1 {
			return
		}

		car := l.cars[idx]
		l.cars = append(l.cars[:idx], l.cars[idx+1:]...)

		in := l.interactions[car.NextHopInteraction]
		self := l.ID()
		l.dispatcher.SendAddCar(in.PartnerLane, car.OffsetBy(in.PartnerStart-in.Start), &self, instant)
	}
}

func (l *Lane) eligibleForHandoff(car entity.Car) bool {
	if car.NextHopInteraction == entity.NoHop {
		return false
	}
	in := l.interactions[car.NextHopInteraction]
	if in.Kind.IsOverlap() && in.Kind.OverlapKind() == entity.OverlapTransfer {
		return car.Position > in.Start && car.Position > in.Kind.End-l.tuning.TransferHandoffLookahead
	}
	return car.Position > in.Start
}

// projectObstacles is spec §4.3(k): for every Interaction due this tick,
// project this lane's obstacles/cars onto the partner's coordinates.
func (l *Lane) projectObstacles(instant int64) {
	throttle := int64(l.tuning.TrafficLogicThrottle)
	for _, in := range l.interactions {
		if (instant+1)%throttle != int64(in.PartnerLane)%throttle {
			continue
		}
		projected, ok := obstaclesForInteraction(in, l.cars, l.obstacles)
		if !ok {
			continue
		}
		l.dispatcher.SendAddObstacles(in.PartnerLane, projected, l.ID())
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

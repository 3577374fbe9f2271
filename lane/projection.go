package lane

import (
	"sort"

	"github.com/citybound-go/microtraffic/entity"
)

// sortedObstacles returns the obstacle values, sorted by position, for
// the one-shot forward cursor of followCars.
func sortedObstacles(sourced []entity.SourcedObstacle) []entity.Obstacle {
	out := make([]entity.Obstacle, len(sourced))
	for i, s := range sourced {
		out[i] = s.Obstacle
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// obstaclesForInteraction is spec §4.5: given an Interaction and this
// lane's own cars/obstacles, returns the sequence of Obstacles to project
// onto the partner's coordinate system. ok is false only for Next
// interactions, which carry no projection at all (distinct from a
// Conflicting overlap's legitimate empty batch).
func obstaclesForInteraction(in entity.Interaction, cars []entity.Car, obstacles []entity.SourcedObstacle) ([]entity.Obstacle, bool) {
	offset := in.PartnerStart - in.Start

	switch {
	case in.Kind.IsNext():
		return nil, false

	case in.Kind.IsPrevious():
		first, ok := firstChainedFrom(in.Start-2, cars, obstacles)
		if !ok {
			return []entity.Obstacle{}, true
		}
		return []entity.Obstacle{first.OffsetBy(offset)}, true

	case in.Kind.IsOverlap():
		switch in.Kind.OverlapKind() {
		case entity.OverlapParallel:
			var out []entity.Obstacle
			for _, c := range cars {
				if c.Position+2*c.Velocity >= in.Start && c.Position < in.Kind.End {
					out = append(out, c.Obstacle.OffsetBy(offset))
				}
			}
			return out, true

		case entity.OverlapTransfer:
			var out []entity.Obstacle
			for _, c := range cars {
				if c.Position+2*c.Velocity >= in.Start {
					out = append(out, c.Obstacle.OffsetBy(offset))
				}
			}
			for _, o := range obstacles {
				if o.From == in.PartnerLane {
					continue
				}
				if o.Obstacle.Position+2*o.Obstacle.Velocity > in.Start {
					out = append(out, o.Obstacle.OffsetBy(offset))
				}
			}
			return out, true

		case entity.OverlapConflicting:
			for _, c := range cars {
				if c.Position+2*c.Velocity > in.Start && c.Position-2 < in.Kind.End {
					return []entity.Obstacle{{Position: in.PartnerStart, Velocity: 0, MaxVelocity: 0}}, true
				}
			}
			return []entity.Obstacle{}, true
		}
	}
	return []entity.Obstacle{}, true
}

// firstChainedFrom returns the first obstacle-or-car at or past
// minPosition, walking cars (already position-ordered) first and only
// falling back to obstacles, in storage order, if no car matches. This is
// a chain, not a closest-of-either merge: a matching car always wins over
// a nearer obstacle later in the chain.
func firstChainedFrom(minPosition float64, cars []entity.Car, obstacles []entity.SourcedObstacle) (entity.Obstacle, bool) {
	for _, c := range cars {
		if c.Position >= minPosition {
			return c.Obstacle, true
		}
	}
	for _, o := range obstacles {
		if o.Obstacle.Position >= minPosition {
			return o.Obstacle, true
		}
	}
	return entity.Obstacle{}, false
}

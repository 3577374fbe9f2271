// Package lane implements Lane, the directional-road-segment variant of
// entity.LaneLike: an ordered car list, a fixed signal program, a routing
// table, and the car-following/handoff/obstacle-projection tick that
// drives them (spec §4.2-§4.3, §4.5, §4.6).
package lane

import (
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/citybound-go/microtraffic/entity"
	"github.com/citybound-go/microtraffic/utils/config"
)

var log = logrus.WithField("module", "lane")

// Lane is a directional road segment carrying an ordered sequence of cars
// along a 1-D arc length (spec §2, §3 Microtraffic).
type Lane struct {
	id entity.LaneID

	cars         []entity.Car
	obstacles    []entity.SourcedObstacle
	interactions []entity.Interaction
	timings      []bool

	location *entity.LocationID
	routes   map[entity.LocationID]entity.RoutingInfo

	constructionProgress float64
	prevGreen            bool
	haveTicked           bool
	lastInstant          int64

	router     entity.Router
	dispatcher entity.Dispatcher
	tuning     config.Tuning
}

// New constructs a Lane. interactions is the lane's own mutable copy of
// its connectivity (Next.Green is updated in place per spec §4.3(d));
// location is nil when this lane is not a pathfinding destination/origin.
// A lane's throttling phase (spec §9 "instance_id mod N") is its own id;
// a partner's phase is likewise derived from its id, so staggering never
// requires asking the partner anything.
func New(
	id entity.LaneID,
	location *entity.LocationID,
	timings []bool,
	interactions []entity.Interaction,
	router entity.Router,
	dispatcher entity.Dispatcher,
	tuning config.Tuning,
) *Lane {
	routes := map[entity.LocationID]entity.RoutingInfo{}
	if router != nil {
		if r := router.Routes(id); r != nil {
			routes = r
		}
	}
	return &Lane{
		id:           id,
		interactions: interactions,
		timings:      timings,
		location:     location,
		routes:       routes,
		router:       router,
		dispatcher:   dispatcher,
		tuning:       tuning,
	}
}

// ID satisfies entity.LaneLike.
func (l *Lane) ID() entity.LaneLikeID { return l.id.AsLaneLike() }

// Cars exposes the current ordered car list, read-only, for tests and
// diagnostics.
func (l *Lane) Cars() []entity.Car { return l.cars }

// Green reports the lane's current signal state.
func (l *Lane) Green() bool { return l.signal().green }

type signalState struct {
	green         bool
	yellowToGreen bool
	yellowToRed   bool
}

// signal derives the lane's signal state from timings and instant, per
// spec §4.3(c). Callers pass no instant; Lane keeps the instant of the
// last Tick so Green() between ticks reflects the last computed state.
func (l *Lane) signal() signalState {
	return l.signalAt(l.lastInstant)
}

// AddCar is the routing-decision entry point (spec §4.2). from is nil
// when the car is freshly spawned by an external collaborator.
func (l *Lane) AddCar(car entity.Car, from *entity.LaneLikeID, instant int64) {
	if l.location != nil && *l.location == car.Destination.Location && car.Position >= car.Destination.Offset {
		l.dispatcher.FinishTrip(car.Trip, entity.TripResult{
			Instant: instant,
			Fate:    entity.TripSuccess,
		})
		return
	}

	almostThere := false
	nextHop := entity.NoHop
	if l.location != nil && *l.location == car.Destination.Location {
		// This lane is the destination location itself (just not yet at
		// the offset, or step 1 above would have already finished the
		// trip): never route further, even if the table has a stale hop.
		almostThere = true
	} else if info, ok := l.lookupRoute(car.Destination.Location); ok {
		nextHop = info.OutgoingIdx
	} else if info, ok := l.lookupRoute(car.Destination.LandmarkDestination()); ok {
		nextHop = info.OutgoingIdx
	}

	if nextHop == entity.NoHop && !almostThere {
		here := l.ID()
		l.dispatcher.FinishTrip(car.Trip, entity.TripResult{
			LocationNow: &here,
			Instant:     instant,
			Fate:        entity.TripNoRoute,
		})
		return
	}

	car.NextHopInteraction = nextHop
	l.insertOrdered(car)
}

func (l *Lane) lookupRoute(loc entity.LocationID) (entity.RoutingInfo, bool) {
	info, ok := l.routes[loc]
	return info, ok
}

// insertOrdered inserts car at the first position whose existing car has
// a strictly greater position, preserving the non-decreasing invariant.
func (l *Lane) insertOrdered(car entity.Car) {
	idx := sort.Search(len(l.cars), func(i int) bool {
		return l.cars[i].Position > car.Position
	})
	l.cars = append(l.cars, entity.Car{})
	copy(l.cars[idx+1:], l.cars[idx:])
	l.cars[idx] = car
}

// AddObstacles replaces all obstacles previously tagged with from, then
// appends the new batch tagged with from (spec §4.6).
func (l *Lane) AddObstacles(obstacles []entity.Obstacle, from entity.LaneLikeID) {
	kept := lo.Filter(l.obstacles, func(o entity.SourcedObstacle, _ int) bool {
		return o.From != from
	})
	for _, o := range obstacles {
		kept = append(kept, entity.SourcedObstacle{Obstacle: o, From: from})
	}
	l.obstacles = kept
}

// OnSignalChanged updates the matching Next interaction's Green bit, or
// logs and drops if the partner isn't registered yet (spec §4.3(d), §7).
func (l *Lane) OnSignalChanged(from entity.LaneLikeID, green bool) {
	for i := range l.interactions {
		in := &l.interactions[i]
		if in.PartnerLane == from && in.Kind.IsNext() {
			in.Kind.Green = green
			return
		}
	}
	log.WithField("lane", l.id).WithField("from", from).Warn("Lane doesn't know about next lane yet")
}

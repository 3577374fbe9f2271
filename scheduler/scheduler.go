// Package scheduler is the spec §9 "actor shape": an explicit inbox per
// lane and a scheduler that drains inboxes between ticks. A message
// produced during tick t is queued here and only delivered at the start
// of tick t+1 (spec §5), so no lane ever observes another lane's effects
// within the same tick that produced them.
package scheduler

import (
	"sync"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/sirupsen/logrus"

	"github.com/citybound-go/microtraffic/entity"
)

var log = logrus.WithField("module", "scheduler")

type addCarMsg struct {
	to      entity.LaneLikeID
	car     entity.Car
	from    *entity.LaneLikeID
	instant int64
}

type addObstaclesMsg struct {
	to        entity.LaneLikeID
	obstacles []entity.Obstacle
	from      entity.LaneLikeID
}

type signalMsg struct {
	to    entity.LaneLikeID
	from  entity.LaneLikeID
	green bool
}

// Scheduler owns the lane registry, implements entity.Dispatcher by
// queuing every send into the recipient's next-tick inbox, and drives
// the tick loop (spec §9).
type Scheduler struct {
	lanes map[entity.LaneLikeID]entity.LaneLike
	trips entity.Trips

	mu         sync.Mutex
	addCars    []addCarMsg
	addObs     []addObstaclesMsg
	signals    []signalMsg
	inFlightID int
	done       chan struct{}
}

// New builds an empty scheduler. trips receives every finish(trip,
// result) notification (spec §6's trip-layer collaborator).
func New(trips entity.Trips) *Scheduler {
	return &Scheduler{
		lanes: map[entity.LaneLikeID]entity.LaneLike{},
		trips: trips,
		done:  make(chan struct{}),
	}
}

// Register adds a lane (or transfer lane) to the registry under id.
func (s *Scheduler) Register(id entity.LaneLikeID, l entity.LaneLike) {
	s.lanes[id] = l
}

// Lane looks a registered LaneLike up by id.
func (s *Scheduler) Lane(id entity.LaneLikeID) (entity.LaneLike, bool) {
	l, ok := s.lanes[id]
	return l, ok
}

// Close releases the scheduler's internal done channel, letting any
// channerics fan-in consumers still reading from it unblock.
func (s *Scheduler) Close() {
	close(s.done)
}

// SendAddCar satisfies entity.Dispatcher: queues the car for delivery at
// the start of the recipient's next tick.
func (s *Scheduler) SendAddCar(to entity.LaneLikeID, car entity.Car, from *entity.LaneLikeID, instant int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCars = append(s.addCars, addCarMsg{to, car, from, instant})
}

// SendAddObstacles satisfies entity.Dispatcher.
func (s *Scheduler) SendAddObstacles(to entity.LaneLikeID, obstacles []entity.Obstacle, from entity.LaneLikeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addObs = append(s.addObs, addObstaclesMsg{to, obstacles, from})
}

// SendSignalChanged satisfies entity.Dispatcher.
func (s *Scheduler) SendSignalChanged(to entity.LaneLikeID, from entity.LaneLikeID, green bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, signalMsg{to, from, green})
}

// FinishTrip satisfies entity.Dispatcher by forwarding straight to the
// trip-layer collaborator; trip completion isn't a lane-to-lane message
// and carries no next-tick delay.
func (s *Scheduler) FinishTrip(trip entity.TripID, result entity.TripResult) {
	s.trips.Finish(trip, result)
}

// Tick drains every inbox produced by the previous tick, then runs every
// registered lane's own Tick concurrently (lanes share no mutable state,
// so this is safe) and waits for all of them to finish.
func (s *Scheduler) Tick(dt float64, instant int64) {
	s.drainInboxes(instant)
	s.tickLanes(dt, instant)
}

func (s *Scheduler) drainInboxes(instant int64) {
	addCars, addObs, signals := s.addCars, s.addObs, s.signals
	s.addCars, s.addObs, s.signals = nil, nil, nil

	for _, m := range addCars {
		l, ok := s.lanes[m.to]
		if !ok {
			log.WithField("to", m.to).Warn("add_car addressed to an unregistered lane")
			continue
		}
		l.AddCar(m.car, m.from, instant)
	}
	for _, m := range addObs {
		l, ok := s.lanes[m.to]
		if !ok {
			log.WithField("to", m.to).Warn("add_obstacles addressed to an unregistered lane")
			continue
		}
		l.AddObstacles(m.obstacles, m.from)
	}
	for _, m := range signals {
		l, ok := s.lanes[m.to]
		if !ok {
			log.WithField("to", m.to).Warn("on_signal_changed addressed to an unregistered lane")
			continue
		}
		// Delivery through the typed SignalReceiver interface: a
		// TransferLane simply doesn't implement it, so the message is a
		// silent no-op rather than a cast onto the wrong concrete type
		// (spec §9's untyped-id open question).
		if receiver, ok := l.(entity.SignalReceiver); ok {
			receiver.OnSignalChanged(m.from, m.green)
		}
	}
}

// tickLanes runs every lane's Tick concurrently and fans their
// completion signals together with channerics.Merge, mirroring the
// teacher's parallel per-phase orchestration but expressed over channels
// instead of a bare sync.WaitGroup.
func (s *Scheduler) tickLanes(dt float64, instant int64) {
	workers := make([]<-chan struct{}, 0, len(s.lanes))
	for _, l := range s.lanes {
		l := l
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			l.Tick(dt, instant)
		}()
		workers = append(workers, finished)
	}

	for range channerics.Merge(s.done, workers...) {
		// drain; each worker channel closes without a value, so nothing
		// is ever received here, but the range exits once every worker
		// channel (and therefore the merge) closes.
	}
}

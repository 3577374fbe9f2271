// Package transferlane implements TransferLane, the lateral-drift variant
// of entity.LaneLike: a short bridge between two Lanes where cars carry an
// extra lateral coordinate and commit to the left or right side (spec
// §4.4, §4.7).
package transferlane

import (
	"github.com/sirupsen/logrus"

	"github.com/citybound-go/microtraffic/entity"
	"github.com/citybound-go/microtraffic/utils/config"
)

var log = logrus.WithField("module", "transferlane")

// TransferLane bridges two adjacent Lanes; it does not implement
// entity.SignalReceiver, so on_signal_changed delivered to it is simply
// not understood by the scheduler's SignalReceiver type assertion (spec §9).
type TransferLane struct {
	id entity.LaneLikeID

	cars           []entity.TransferringCar
	leftObstacles  []entity.Obstacle
	rightObstacles []entity.Obstacle

	connectivity entity.TransferConnectivity

	constructionProgress float64

	dispatcher entity.Dispatcher
	tuning     config.Tuning
}

// New constructs a TransferLane from its two-neighbor connectivity.
func New(id entity.LaneLikeID, connectivity entity.TransferConnectivity, dispatcher entity.Dispatcher, tuning config.Tuning) *TransferLane {
	return &TransferLane{
		id:           id,
		connectivity: connectivity,
		dispatcher:   dispatcher,
		tuning:       tuning,
	}
}

// ID satisfies entity.LaneLike.
func (t *TransferLane) ID() entity.LaneLikeID { return t.id }

// Cars exposes the current car list for tests and diagnostics.
func (t *TransferLane) Cars() []entity.TransferringCar { return t.cars }

// AddCar is spec §4.7: a sender is mandatory, since a TransferLane cannot
// tell which side a car is meant to have entered from otherwise.
func (t *TransferLane) AddCar(car entity.Car, from *entity.LaneLikeID, instant int64) {
	if from == nil {
		log.WithField("lane", t.id).Panic("TransferLane.AddCar requires a sender")
	}

	fromLeft := t.connectivity.Left != nil && t.connectivity.Left.Lane == *from
	offset := t.connectivity.InteractionToSelfOffset(car.Position, fromLeft)

	sideMultiplier := 1.0
	if fromLeft {
		sideMultiplier = -1.0
	}

	transferring := entity.TransferringCar{
		Car:                  car.OffsetBy(offset),
		TransferPosition:     1.0 * sideMultiplier,
		TransferVelocity:     0,
		TransferAcceleration: 0.3 * -sideMultiplier,
		Cancelling:           false,
	}

	t.insertOrdered(transferring)
}

func (t *TransferLane) insertOrdered(car entity.TransferringCar) {
	idx := len(t.cars)
	for i, existing := range t.cars {
		if existing.Position > car.Position {
			idx = i
			break
		}
	}
	t.cars = append(t.cars, entity.TransferringCar{})
	copy(t.cars[idx+1:], t.cars[idx:])
	t.cars[idx] = car
}

// AddObstacles is spec §4.7: obstacles route into left/right storage by
// sender identity, translated into this lane's own coordinate frame.
func (t *TransferLane) AddObstacles(obstacles []entity.Obstacle, from entity.LaneLikeID) {
	switch {
	case t.connectivity.Left != nil && t.connectivity.Left.Lane == from:
		t.leftObstacles = replaceTranslated(t.leftObstacles, obstacles, t.connectivity, true)
	case t.connectivity.Right != nil && t.connectivity.Right.Lane == from:
		t.rightObstacles = replaceTranslated(t.rightObstacles, obstacles, t.connectivity, false)
	default:
		log.WithField("lane", t.id).WithField("from", from).Warn("transfer lane not connected to sender yet")
	}
}

func replaceTranslated(_ []entity.Obstacle, incoming []entity.Obstacle, c entity.TransferConnectivity, fromLeft bool) []entity.Obstacle {
	out := make([]entity.Obstacle, len(incoming))
	for i, o := range incoming {
		out[i] = o.OffsetBy(c.InteractionToSelfOffset(o.Position, fromLeft))
	}
	return out
}

package transferlane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citybound-go/microtraffic/entity"
	"github.com/citybound-go/microtraffic/transferlane"
	"github.com/citybound-go/microtraffic/utils/config"
)

type call struct {
	kind string
	to   entity.LaneLikeID
	car  entity.Car
}

type fakeDispatcher struct {
	addCarCalls []call
}

func (f *fakeDispatcher) SendAddCar(to entity.LaneLikeID, car entity.Car, from *entity.LaneLikeID, instant int64) {
	f.addCarCalls = append(f.addCarCalls, call{"add_car", to, car})
}
func (f *fakeDispatcher) SendAddObstacles(to entity.LaneLikeID, obstacles []entity.Obstacle, from entity.LaneLikeID) {
}
func (f *fakeDispatcher) SendSignalChanged(to entity.LaneLikeID, from entity.LaneLikeID, green bool) {
}
func (f *fakeDispatcher) FinishTrip(trip entity.TripID, result entity.TripResult) {}

func tuning() config.Tuning {
	return config.NewRuntimeConfig(config.Config{}).Tuning
}

func TestAddCarFromLeftStartsAtLeftEdgeDriftingRight(t *testing.T) {
	disp := &fakeDispatcher{}
	left := entity.LaneLikeID(1)
	right := entity.LaneLikeID(2)
	conn := entity.TransferConnectivity{
		Left:   &entity.NeighborLink{Lane: left, Start: 0},
		Right:  &entity.NeighborLink{Lane: right, Start: 0},
		Length: 50,
	}
	tl := transferlane.New(entity.LaneLikeID(3), conn, disp, tuning())

	tl.AddCar(entity.Car{Obstacle: entity.Obstacle{Position: 10, Velocity: 5, MaxVelocity: 10}}, &left, 0)

	require.Len(t, tl.Cars(), 1)
	car := tl.Cars()[0]
	assert.Equal(t, -1.0, car.TransferPosition)
	assert.Equal(t, 0.3, car.TransferAcceleration)
}

func TestAddCarWithoutSenderPanics(t *testing.T) {
	disp := &fakeDispatcher{}
	tl := transferlane.New(entity.LaneLikeID(3), entity.TransferConnectivity{}, disp, tuning())
	assert.Panics(t, func() {
		tl.AddCar(entity.Car{}, nil, 0)
	})
}

func TestCommitsToRightWhenTransferPositionCrossesOne(t *testing.T) {
	disp := &fakeDispatcher{}
	left := entity.LaneLikeID(1)
	right := entity.LaneLikeID(2)
	conn := entity.TransferConnectivity{
		Left:   &entity.NeighborLink{Lane: left, Start: 0},
		Right:  &entity.NeighborLink{Lane: right, Start: 0},
		Length: 50,
	}
	tl := transferlane.New(entity.LaneLikeID(3), conn, disp, tuning())
	tl.AddCar(entity.Car{Obstacle: entity.Obstacle{Position: 10, Velocity: 5, MaxVelocity: 10}}, &left, 0)

	for tick := int64(0); tick < 600 && len(tl.Cars()) > 0; tick++ {
		tl.Tick(1.0, tick)
	}

	assert.Empty(t, tl.Cars(), "car should have committed off the transfer lane")
	require.Len(t, disp.addCarCalls, 1)
	assert.Equal(t, right, disp.addCarCalls[0].to)
}

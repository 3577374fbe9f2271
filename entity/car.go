package entity

// Car is a trip-carrying obstacle: the thing that actually advances
// through Lane.tick's car-following pass, as opposed to the raw obstacles
// projected in from neighboring lanes.
type Car struct {
	Obstacle

	Trip         TripID
	Acceleration float64
	Destination  PreciseLocation

	// NextHopInteraction is the index into the current lane's interaction
	// list this car intends to take, or -1 if it hasn't been routed yet
	// (or this lane is the destination, in which case it never needs to
	// be routed further).
	NextHopInteraction int
}

// NoHop means "not yet routed, or this lane is the destination".
const NoHop = -1

// OffsetBy returns a copy of the car shifted in position only, used when
// handing a car off across an interaction's start/partner_start seam.
func (c Car) OffsetBy(delta float64) Car {
	c.Obstacle = c.Obstacle.OffsetBy(delta)
	return c
}

// TransferringCar is a Car additionally carrying lateral state on a
// TransferLane: a position in [-1, +1] (left edge to right edge), its
// first derivative, its second derivative, and whether it has already
// reversed its lateral drift once after clipping an obstacle.
type TransferringCar struct {
	Car

	TransferPosition     float64
	TransferVelocity     float64
	TransferAcceleration float64
	Cancelling           bool
}

// OffsetBy shifts only the longitudinal position, leaving lateral state
// untouched — used when a TransferringCar is hand off back to a plain
// Lane, which has no notion of lateral position.
func (c TransferringCar) OffsetBy(delta float64) Car {
	return c.Car.OffsetBy(delta)
}

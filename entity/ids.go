// Package entity holds the value types and interfaces shared by the lane
// and transfer-lane actors: obstacles, cars, interactions, and the
// LaneLike capability set they are addressed through.
package entity

import "fmt"

// LaneLikeID addresses either a Lane or a TransferLane. It never embeds a
// pointer: lanes only ever refer to each other by id, and resolve the id
// through a registry at message-dispatch time.
type LaneLikeID int32

// LaneID is the subset of LaneLikeID known to be a plain Lane: a Lane's own
// id and the key the Router uses for its routing table. on_signal_changed
// itself travels under a LaneLikeID; the scheduler delivers it only to
// recipients implementing SignalReceiver and drops it for any other
// (see scheduler.drainInboxes), instead of reinterpreting an untyped raw id.
type LaneID int32

func (id LaneID) AsLaneLike() LaneLikeID { return LaneLikeID(id) }

func (id LaneLikeID) String() string { return fmt.Sprintf("lane#%d", int32(id)) }

// LocationID names an abstract "place" a lane may represent for routing
// purposes. It is opaque to the microtraffic engine; the pathfinding layer
// defines what it means. The zero value is never a valid id on its own —
// a lane's location is present only when its *LocationID is non-nil (or
// Router.Location reports ok), and a zero PreciseLocation.Landmark means
// no landmark is known.
type LocationID int32

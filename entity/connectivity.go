package entity

// TransferConnectivity is what a TransferLane needs about its two
// neighbors: their ids and the arc coordinate on each where the bridge
// begins, plus the bridge's own length.
type TransferConnectivity struct {
	Left   *NeighborLink
	Right  *NeighborLink
	Length float64
}

// NeighborLink names a Lane and the arc coordinate on it corresponding to
// this TransferLane's position 0.
type NeighborLink struct {
	Lane  LaneLikeID
	Start float64
}

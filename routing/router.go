// Package routing is a minimal stand-in for the pathfinding layer spec
// §6 treats as an external collaborator: it supplies, per lane, a
// routing table keyed by destination and an update_routes refresh hook.
// The core only consumes entity.Router; this package is one concrete,
// in-memory implementation of it, useful for tests and small
// deployments that don't need a real distributed routing service.
package routing

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/citybound-go/microtraffic/entity"
)

var log = logrus.WithField("module", "routing")

// Table is a static, in-memory entity.Router: every lane's routing table
// and location are set up front (e.g. by a topology loader) and never
// recomputed. UpdateRoutes is a no-op; a real pathfinding service would
// instead refresh Routes from live shortest-path computation here.
type Table struct {
	mu        sync.RWMutex
	locations map[entity.LaneID]entity.LocationID
	routes    map[entity.LaneID]map[entity.LocationID]entity.RoutingInfo
}

// NewTable builds an empty routing table.
func NewTable() *Table {
	return &Table{
		locations: map[entity.LaneID]entity.LocationID{},
		routes:    map[entity.LaneID]map[entity.LocationID]entity.RoutingInfo{},
	}
}

// SetLocation marks lane as the pathfinding "place" named loc.
func (t *Table) SetLocation(lane entity.LaneID, loc entity.LocationID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locations[lane] = loc
}

// SetRoute records that, from lane, destination dest is reached via
// outgoing interaction index outgoingIdx.
func (t *Table) SetRoute(lane entity.LaneID, dest entity.LocationID, outgoingIdx int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.routes[lane] == nil {
		t.routes[lane] = map[entity.LocationID]entity.RoutingInfo{}
	}
	t.routes[lane][dest] = entity.RoutingInfo{OutgoingIdx: outgoingIdx}
}

// Routes satisfies entity.Router.
func (t *Table) Routes(lane entity.LaneID) map[entity.LocationID]entity.RoutingInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.routes[lane]
}

// UpdateRoutes satisfies entity.Router. This static table has nothing to
// refresh; a real pathfinding backend would recompute shortest paths
// from lane here and call SetRoute.
func (t *Table) UpdateRoutes(lane entity.LaneID, instant int64) {
	log.WithField("lane", lane).WithField("instant", instant).Trace("static routing table has no refresh to perform")
}

// Location satisfies entity.Router.
func (t *Table) Location(lane entity.LaneID) (entity.LocationID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	loc, ok := t.locations[lane]
	return loc, ok
}

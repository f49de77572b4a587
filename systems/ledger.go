package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
)

// Credit is the merged harvest added to one owner by a flush.
type Credit struct {
	Owner     ecs.Entity
	Resources components.ResourceMap
}

// Ledger batches CollectResource events into player inventories.
//
// Events live on their own entities between Emit and Flush. Flush is the
// synchronization point of a tick: it must run after every lifecycle write
// for that tick has finished.
type Ledger struct {
	world    *ecs.World
	filter   ecs.Filter1[components.CollectResource]
	eventMap *ecs.Map[components.CollectResource]
	invMap   *ecs.Map[components.PlayerInventory]

	pending []pendingEvent
	index   map[ecs.Entity]int
}

type pendingEvent struct {
	entity ecs.Entity
	event  components.CollectResource
}

// NewLedger creates a ledger over w.
func NewLedger(w *ecs.World) *Ledger {
	return &Ledger{
		world:    w,
		filter:   *ecs.NewFilter1[components.CollectResource](w),
		eventMap: ecs.NewMap[components.CollectResource](w),
		invMap:   ecs.NewMap[components.PlayerInventory](w),
		index:    make(map[ecs.Entity]int),
	}
}

// Emit queues a collect event for owner.
func (l *Ledger) Emit(owner ecs.Entity, resources components.ResourceMap) ecs.Entity {
	return l.eventMap.NewEntity(&components.CollectResource{
		Owner:     owner,
		Resources: resources,
	})
}

// Pending returns the number of queued events.
func (l *Ledger) Pending() int {
	n := 0
	query := l.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Flush merges all queued events per owner, adds the totals to each owner's
// inventory and removes the events. Owners without an inventory get one.
// Events for owners that no longer exist are dropped.
// Returned credits are in order of each owner's first event.
func (l *Ledger) Flush() []Credit {
	l.pending = l.pending[:0]
	query := l.filter.Query()
	for query.Next() {
		ev := query.Get()
		l.pending = append(l.pending, pendingEvent{entity: query.Entity(), event: *ev})
	}
	if len(l.pending) == 0 {
		return nil
	}

	var credits []Credit
	clear(l.index)
	dropped := 0
	for _, p := range l.pending {
		owner := p.event.Owner
		if !l.world.Alive(owner) {
			dropped++
			continue
		}
		i, ok := l.index[owner]
		if !ok {
			i = len(credits)
			l.index[owner] = i
			credits = append(credits, Credit{Owner: owner, Resources: components.ResourceMap{}})
		}
		credits[i].Resources.Merge(p.event.Resources)
	}

	for _, p := range l.pending {
		l.world.RemoveEntity(p.entity)
	}
	if dropped > 0 {
		slog.Warn("ledger_dropped_events", "count", dropped, "reason", "owner_gone")
	}

	for _, c := range credits {
		if !l.invMap.Has(c.Owner) {
			l.invMap.Add(c.Owner, &components.PlayerInventory{Resources: components.ResourceMap{}})
		}
		inv := l.invMap.Get(c.Owner)
		if inv.Resources == nil {
			inv.Resources = components.ResourceMap{}
		}
		inv.Resources.Merge(c.Resources)
	}

	return credits
}

// Inventory returns the inventory of owner, or nil if it has none.
func (l *Ledger) Inventory(owner ecs.Entity) *components.PlayerInventory {
	if !l.world.Alive(owner) || !l.invMap.Has(owner) {
		return nil
	}
	return l.invMap.Get(owner)
}

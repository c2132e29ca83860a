package scheduler

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rhyrak/exam-seating/pkg/model"
)

// Pool names used in logs and metrics.
const (
	PrimaryPool  = "primary"
	OverflowPool = "overflow"
)

type poolRoom struct {
	room      *model.Room
	pool      string
	usable    int
	remaining int
}

// RoomPool hands out seats from the primary rooms first and the overflow rooms
// second. Remaining capacity only goes down until Reset is called.
type RoomPool struct {
	primary  []*poolRoom
	overflow []*poolRoom
	index    map[*model.Room]*poolRoom
	ignored  []*model.Room
}

// NewRoomPool partitions rooms by block. Primary rooms are ordered by room id
// ascending, overflow rooms by raw capacity descending. Rooms in neither block
// are kept aside and reported by Ignored. Room numbers must be unique across
// both pools since assignments name a room by number only.
func NewRoomPool(rooms []*model.Room, primaryBlock, overflowBlock string, mode Mode, margin int) (*RoomPool, error) {
	p := &RoomPool{index: make(map[*model.Room]*poolRoom, len(rooms))}
	seen := make(map[string]string, len(rooms))
	for _, r := range rooms {
		var pool string
		switch {
		case r.InBlock(primaryBlock):
			pool = PrimaryPool
		case r.InBlock(overflowBlock):
			pool = OverflowPool
		default:
			p.ignored = append(p.ignored, r)
			continue
		}
		id := strings.TrimSpace(r.ID)
		if block, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: room %s listed in block %q and block %q", ErrInvalidInput, id, block, r.Block)
		}
		seen[id] = r.Block
		usable, err := ComputeMaxCapacity(r.Capacity, mode, margin)
		if err != nil {
			return nil, err
		}
		pr := &poolRoom{room: r, pool: pool, usable: usable, remaining: usable}
		p.index[r] = pr
		if pool == PrimaryPool {
			p.primary = append(p.primary, pr)
		} else {
			p.overflow = append(p.overflow, pr)
		}
	}

	slices.SortStableFunc(p.primary, func(a, b *poolRoom) int {
		return compareRoomIDs(a.room.ID, b.room.ID)
	})
	slices.SortStableFunc(p.overflow, func(a, b *poolRoom) int {
		return cmp.Compare(b.room.Capacity, a.room.Capacity)
	})
	return p, nil
}

// Integer room numbers sort first, numerically. Every other id follows in
// string order.
func compareRoomIDs(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// Rooms returns every pooled room in drain order: primary, then overflow.
func (p *RoomPool) Rooms() []*model.Room {
	rooms := make([]*model.Room, 0, len(p.primary)+len(p.overflow))
	rooms = append(rooms, p.Primary()...)
	return append(rooms, p.Overflow()...)
}

func (p *RoomPool) Primary() []*model.Room {
	return unwrap(p.primary)
}

func (p *RoomPool) Overflow() []*model.Room {
	return unwrap(p.overflow)
}

func unwrap(prs []*poolRoom) []*model.Room {
	rooms := make([]*model.Room, len(prs))
	for i, pr := range prs {
		rooms[i] = pr.room
	}
	return rooms
}

// Ignored returns rooms that belong to neither block.
func (p *RoomPool) Ignored() []*model.Room {
	return p.ignored
}

// PoolOf names the pool holding the room, or "" if the room is not pooled.
func (p *RoomPool) PoolOf(room *model.Room) string {
	if pr, ok := p.index[room]; ok {
		return pr.pool
	}
	return ""
}

// Usable returns the seat count the room started with.
func (p *RoomPool) Usable(room *model.Room) int {
	if pr, ok := p.index[room]; ok {
		return pr.usable
	}
	return 0
}

// Remaining returns the seats still free in the room.
func (p *RoomPool) Remaining(room *model.Room) int {
	if pr, ok := p.index[room]; ok {
		return pr.remaining
	}
	return 0
}

// TotalRemaining sums the free seats over both pools.
func (p *RoomPool) TotalRemaining() int {
	total := 0
	for _, pr := range p.index {
		total += pr.remaining
	}
	return total
}

// Allocate takes up to requested seats from the room and returns how many were
// taken. An exhausted or unknown room yields zero.
func (p *RoomPool) Allocate(room *model.Room, requested int) int {
	pr, ok := p.index[room]
	if !ok || requested <= 0 {
		return 0
	}
	n := min(pr.remaining, requested)
	pr.remaining -= n
	return n
}

// Reset restores every room to its usable capacity.
func (p *RoomPool) Reset() {
	for _, pr := range p.index {
		pr.remaining = pr.usable
	}
}

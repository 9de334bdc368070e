package server

import (
	"sort"

	"go.uber.org/multierr"

	"deadfish/wire"
)

const maxEntityID = 1<<16 - 1

// Slot 一对 (连接, 实体)，同生同灭
type Slot struct {
	Conn   Conn
	Entity *Entity
}

// Store 注册表的底层存储；顺序对正确性无影响，只要求 O(1) 追加与删除
type Store interface {
	Append(Slot)
	Len() int
	At(i int) *Slot
	// SwapRemove 用末尾元素覆盖 i 并缩短一位，返回被移除的元素
	SwapRemove(i int) Slot
}

type sliceStore struct {
	slots []Slot
}

func (s *sliceStore) Append(sl Slot) { s.slots = append(s.slots, sl) }
func (s *sliceStore) Len() int { return len(s.slots) }
func (s *sliceStore) At(i int) *Slot { return &s.slots[i] }

func (s *sliceStore) SwapRemove(i int) Slot {
	last := len(s.slots) - 1
	out := s.slots[i]
	s.slots[i] = s.slots[last]
	s.slots[last] = Slot{}
	s.slots = s.slots[:last]
	return out
}

// Registry 权威实体集合。只由 Tick 协程访问，因此不加锁。
type Registry struct {
	store Store
	steer Steering
	world WorldConfig

	nextID uint16
	live   map[uint16]struct{}

	enc  *wire.Encoder
	recs []wire.MobRecord
}

func NewRegistry(steer Steering, world WorldConfig) *Registry {
	return NewRegistryWithStore(&sliceStore{}, steer, world)
}

func NewRegistryWithStore(store Store, steer Steering, world WorldConfig) *Registry {
	return &Registry{
		store: store,
		steer: steer,
		world: world,
		live:  make(map[uint16]struct{}),
		enc:   wire.NewEncoder(),
	}
}

// Add 为新连接创建默认状态的实体并登记，返回实体 ID。
// ID 单调递增；回绕后跳过仍在使用的 ID。
func (r *Registry) Add(c Conn) uint16 {
	id := r.allocID()
	r.live[id] = struct{}{}
	r.store.Append(Slot{Conn: c, Entity: newEntity(id, r.world.Spawn, r.world.DefaultTarget)})
	return id
}

func (r *Registry) allocID() uint16 {
	for {
		id := r.nextID
		r.nextID++
		if _, used := r.live[id]; !used {
			return id
		}
	}
}

func (r *Registry) Len() int { return r.store.Len() }

func (r *Registry) At(i int) *Slot { return r.store.At(i) }

// ApplyCommand 覆盖第 i 个实体的移动目标；世界无边界，不校验范围
func (r *Registry) ApplyCommand(i int, target Vec2) {
	r.store.At(i).Entity.Target = target
}

func (r *Registry) Steering() Steering { return r.steer }

func (r *Registry) SetSteering(s Steering) { r.steer = s }

// TickAll 对每个实体推进一步；实体之间互不影响
func (r *Registry) TickAll() {
	for i := 0; i < r.store.Len(); i++ {
		e := r.store.At(i).Entity
		e.Position, e.Heading = r.steer.Steer(e.Position, e.Heading, e.Target)
	}
}

// Snapshot 将全部实体编码为一条 WorldState
func (r *Registry) Snapshot() []byte {
	r.recs = r.recs[:0]
	for i := 0; i < r.store.Len(); i++ {
		r.recs = append(r.recs, r.store.At(i).Entity.record())
	}
	return r.enc.Encode(r.recs)
}

// Remove 以 swap-with-last 移除第 i 项并关闭其连接。
// 调用后下标 i 指向原末尾元素，遍历中请改用 RemoveBatch。
func (r *Registry) Remove(i int) error {
	sl := r.store.SwapRemove(i)
	delete(r.live, sl.Entity.ID)
	return sl.Conn.Close()
}

// RemoveBatch 一次性移除一组下标（可乱序、可重复），从大到小处理，
// 保证 swap-with-last 不会挪动尚未处理的下标。
func (r *Registry) RemoveBatch(idx []int) error {
	if len(idx) == 0 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	var errs error
	prev := -1
	for _, i := range idx {
		if i == prev {
			continue
		}
		prev = i
		errs = multierr.Append(errs, r.Remove(i))
	}
	return errs
}

// CloseAll 关闭并移除所有连接（停服时调用）
func (r *Registry) CloseAll() error {
	var errs error
	for r.store.Len() > 0 {
		errs = multierr.Append(errs, r.Remove(r.store.Len()-1))
	}
	return errs
}

package physics

import "sync"

// FlatWorld is an infinite solid floor whose top face sits at Y = Top+1.
type FlatWorld struct {
	Top int
}

func (w FlatWorld) IsSolid(_, y, _ int) bool {
	return y <= w.Top
}

// MapStore is a sparse set of solid cells, optionally layered over a floor.
type MapStore struct {
	mu    sync.RWMutex
	solid map[[3]int]struct{}
	floor *FlatWorld
}

func NewMapStore() *MapStore {
	return &MapStore{solid: make(map[[3]int]struct{})}
}

// WithFloor makes every cell at or below top solid.
func (m *MapStore) WithFloor(top int) *MapStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floor = &FlatWorld{Top: top}
	return m
}

func (m *MapStore) IsSolid(x, y, z int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.floor != nil && m.floor.IsSolid(x, y, z) {
		return true
	}
	_, ok := m.solid[[3]int{x, y, z}]
	return ok
}

func (m *MapStore) Set(x, y, z int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solid[[3]int{x, y, z}] = struct{}{}
}

func (m *MapStore) Clear(x, y, z int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.solid, [3]int{x, y, z})
}

// Fill marks the inclusive box between the two corners as solid.
func (m *MapStore) Fill(x0, y0, z0, x1, y1, z1 int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for x := min(x0, x1); x <= max(x0, x1); x++ {
		for y := min(y0, y1); y <= max(y0, y1); y++ {
			for z := min(z0, z1); z <= max(z0, z1); z++ {
				m.solid[[3]int{x, y, z}] = struct{}{}
			}
		}
	}
}

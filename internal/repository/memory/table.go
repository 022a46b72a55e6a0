// Package memory is the default in-process store. Data lives for the life of
// the process only.
package memory

import (
	"maps"
	"slices"
	"sync"
)

// table is an id-keyed collection with auto-increment ids. Rows are cloned on
// the way in and out so callers never alias stored memory.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
	clone  func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{nextID: 1, rows: make(map[int64]T), clone: clone}
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

// find returns the first row, in id order, matching keep.
func (t *table[T]) find(keep func(T) bool) (T, bool) {
	rows := t.filter(keep)
	if len(rows) == 0 {
		var zero T
		return zero, false
	}
	return rows[0], true
}

// filter returns matching rows in id order. A nil keep matches everything.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

// insert assigns the next id via setID and stores the row. unique, when set,
// is checked against every stored row under the write lock.
func (t *table[T]) insert(row T, setID func(*T, int64), unique func(existing T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if unique != nil {
		for _, existing := range t.rows {
			if unique(existing) {
				var zero T
				return zero, false
			}
		}
	}
	row = t.clone(row)
	setID(&row, t.nextID)
	t.rows[t.nextID] = row
	t.nextID++
	return t.clone(row), true
}

// replace overwrites an existing row. It reports false when id is unknown.
func (t *table[T]) replace(id int64, row T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = t.clone(row)
	return true
}

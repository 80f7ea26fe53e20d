package behavior

import "sort"

// Blackboard is the key/value store shared by every node of one agent's
// tree. It is not safe for concurrent use.
type Blackboard struct {
	data map[string]any
}

func NewBlackboard() *Blackboard {
	return &Blackboard{data: make(map[string]any)}
}

// Set stores value under key, replacing any previous value.
func (b *Blackboard) Set(key string, value any) {
	if b.data == nil {
		b.data = make(map[string]any)
	}
	b.data[key] = value
}

// Value returns the raw value for key, or nil.
func (b *Blackboard) Value(key string) any {
	return b.data[key]
}

func (b *Blackboard) Contains(key string) bool {
	_, ok := b.data[key]
	return ok
}

func (b *Blackboard) Delete(key string) {
	delete(b.data, key)
}

// Keys returns the stored keys in sorted order.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Blackboard) Len() int {
	return len(b.data)
}

func (b *Blackboard) Clear() {
	clear(b.data)
}

// Get returns the value for key as T, or T's zero value when the key is
// missing or holds another type.
func Get[T any](b *Blackboard, key string) T {
	v, _ := Lookup[T](b, key)
	return v
}

// Lookup is Get with a presence flag.
func Lookup[T any](b *Blackboard, key string) (T, bool) {
	var zero T
	if b == nil {
		return zero, false
	}
	raw, ok := b.data[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

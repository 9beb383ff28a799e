package analysis

// TopK is a fixed-capacity list kept sorted by key. Equal keys keep
// insertion order, and the last entry is evicted on overflow.
type TopK[T any] struct {
	capacity   int
	key        func(T) float64
	descending bool
	items      []T
}

func NewTopK[T any](capacity int, key func(T) float64, descending bool) *TopK[T] {
	return &TopK[T]{
		capacity:   capacity,
		key:        key,
		descending: descending,
		items:      make([]T, 0, capacity),
	}
}

func (t *TopK[T]) Insert(item T) {
	if t.capacity <= 0 {
		return
	}
	k := t.key(item)
	pos := len(t.items)
	for i, existing := range t.items {
		if t.before(k, t.key(existing)) {
			pos = i
			break
		}
	}
	if pos >= t.capacity {
		return
	}
	if len(t.items) < t.capacity {
		t.items = append(t.items, item)
	}
	copy(t.items[pos+1:], t.items[pos:len(t.items)-1])
	t.items[pos] = item
}

func (t *TopK[T]) before(a, b float64) bool {
	if t.descending {
		return a > b
	}
	return a < b
}

func (t *TopK[T]) Len() int {
	return len(t.items)
}

// Items returns a copy of the ranked entries.
func (t *TopK[T]) Items() []T {
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

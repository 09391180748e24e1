package hashmap

// ObjectSet holds each object at most once and remembers the order of insertion.
type ObjectSet[T comparable] struct {
	items   []T
	members map[T]struct{}
}

func newObjectSet[T comparable]() *ObjectSet[T] {
	return &ObjectSet[T]{
		members: map[T]struct{}{},
	}
}

// add returns false when the object is already part of the set.
func (s *ObjectSet[T]) add(object T) bool {
	if _, exists := s.members[object]; exists {
		return false
	}
	s.members[object] = struct{}{}
	s.items = append(s.items, object)
	return true
}

func (s *ObjectSet[T]) Len() int {
	return len(s.items)
}

func (s *ObjectSet[T]) Contains(object T) bool {
	_, exists := s.members[object]
	return exists
}

// Items returns a copy of the objects in insertion order.
func (s *ObjectSet[T]) Items() []T {
	result := make([]T, len(s.items))
	copy(result, s.items)
	return result
}

// Package collection provides the identity-enforcing list shared by the
// roster's top-level collections.
package collection

// Entity is an element with two equality notions: IsSame detects duplicates,
// Equal locates one specific element.
type Entity[T any] interface {
	IsSame(other T) bool
	Equal(other T) bool
}

// UniqueList is an ordered list in which no two elements are IsSame.
// Errors are supplied by the owner so callers see domain-specific errors.
type UniqueList[T Entity[T]] struct {
	items       []T
	errDup      error
	errNotFound error
}

// NewUniqueList returns an empty list reporting the given errors.
func NewUniqueList[T Entity[T]](errDuplicate, errNotFound error) *UniqueList[T] {
	return &UniqueList[T]{
		items:       make([]T, 0),
		errDup:      errDuplicate,
		errNotFound: errNotFound,
	}
}

// Contains reports whether an element IsSame as x.
func (l *UniqueList[T]) Contains(x T) bool {
	for _, item := range l.items {
		if item.IsSame(x) {
			return true
		}
	}
	return false
}

// Add appends x unless an IsSame element exists.
func (l *UniqueList[T]) Add(x T) error {
	if l.Contains(x) {
		return l.errDup
	}
	l.items = append(l.items, x)
	return nil
}

// Set replaces target, located by Equal, with edited at the same position.
// Edited may be IsSame as target; it may not be IsSame as any other element.
func (l *UniqueList[T]) Set(target, edited T) error {
	index := l.indexOf(target)
	if index < 0 {
		return l.errNotFound
	}
	if !target.IsSame(edited) {
		for i, item := range l.items {
			if i != index && item.IsSame(edited) {
				return l.errDup
			}
		}
	}
	l.items[index] = edited
	return nil
}

// Remove deletes the element Equal to x.
func (l *UniqueList[T]) Remove(x T) error {
	index := l.indexOf(x)
	if index < 0 {
		return l.errNotFound
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return nil
}

// ReplaceAll swaps the whole contents for items, keeping their order.
// Nothing changes when items holds IsSame duplicates.
func (l *UniqueList[T]) ReplaceAll(items []T) error {
	if !Unique(items) {
		return l.errDup
	}
	l.items = append(make([]T, 0, len(items)), items...)
	return nil
}

// Find returns the first element matching pred.
func (l *UniqueList[T]) Find(pred func(T) bool) (T, bool) {
	for _, item := range l.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the elements in order. Mutating the returned slice
// does not affect the list.
func (l *UniqueList[T]) Items() []T {
	return append(make([]T, 0, len(l.items)), l.items...)
}

// Len returns the number of elements.
func (l *UniqueList[T]) Len() int {
	return len(l.items)
}

func (l *UniqueList[T]) indexOf(x T) int {
	for i, item := range l.items {
		if item.Equal(x) {
			return i
		}
	}
	return -1
}

// Unique reports whether no two items are IsSame.
func Unique[T Entity[T]](items []T) bool {
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if items[i].IsSame(items[j]) {
				return false
			}
		}
	}
	return true
}

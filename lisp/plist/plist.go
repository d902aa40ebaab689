/*
Package plist provides an immutable singly linked list whose nodes may be
shared between many lists.

No operation mutates a node after it is constructed.  Prepend allocates one
node and shares the receiver as its tail, Tail returns a list sharing the
receiver's second node, so two lists may physically share any suffix.  Nodes
are released by the garbage collector once no list references them;
releasing a long list never recurses.
*/
package plist

import "iter"

type node[T any] struct {
	elem T
	next *node[T]
	n    int // length of the list starting at this node
}

// List is a persistent list of T values.  The zero List is empty and ready to
// use.  List values are small and copying one never copies elements.
type List[T any] struct {
	head *node[T]
}

// New returns an empty list.
func New[T any]() List[T] {
	return List[T]{}
}

// Of returns a list containing items in order, so that items[0] is the head
// of the returned list.
func Of[T any](items ...T) List[T] {
	var lis List[T]
	for i := len(items) - 1; i >= 0; i-- {
		lis = lis.Prepend(items[i])
	}
	return lis
}

// FromSeq collects the values produced by seq into a list that preserves
// their order.
func FromSeq[T any](seq iter.Seq[T]) List[T] {
	var items []T
	for x := range seq {
		items = append(items, x)
	}
	return Of(items...)
}

// IsEmpty returns true if lis has no elements.
func (lis List[T]) IsEmpty() bool {
	return lis.head == nil
}

// Len returns the number of elements in lis.
func (lis List[T]) Len() int {
	if lis.head == nil {
		return 0
	}
	return lis.head.n
}

// Head returns the first element of lis.  Head returns false if lis is empty.
func (lis List[T]) Head() (T, bool) {
	if lis.head == nil {
		var zero T
		return zero, false
	}
	return lis.head.elem, true
}

// Tail returns the list following the head of lis.  The returned list shares
// its nodes with lis.  Tail returns false if lis is empty.
func (lis List[T]) Tail() (List[T], bool) {
	if lis.head == nil {
		return List[T]{}, false
	}
	return List[T]{head: lis.head.next}, true
}

// Prepend returns a new list with x as its head and lis as its tail.
func (lis List[T]) Prepend(x T) List[T] {
	return List[T]{head: &node[T]{
		elem: x,
		next: lis.head,
		n:    lis.Len() + 1,
	}}
}

// Same returns true if lis and other are physically the same list (they
// begin at the same node).  Two empty lists are the same.
func (lis List[T]) Same(other List[T]) bool {
	return lis.head == other.head
}

// All returns a sequence of the elements in lis.  The sequence may be ranged
// over any number of times.
func (lis List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := lis.head; n != nil; n = n.next {
			if !yield(n.elem) {
				return
			}
		}
	}
}

// Slice collects the elements of lis into a new slice.
func (lis List[T]) Slice() []T {
	if lis.head == nil {
		return nil
	}
	s := make([]T, 0, lis.Len())
	for n := lis.head; n != nil; n = n.next {
		s = append(s, n.elem)
	}
	return s
}

// Iterator steps through the elements of a List.
type Iterator[T any] struct {
	v    T
	rest List[T]
}

// Iter returns an Iterator positioned before the first element of lis.
func (lis List[T]) Iter() *Iterator[T] {
	return &Iterator[T]{rest: lis}
}

// Next advances the iterator to the next element.  Next returns false when
// no elements remain.
func (it *Iterator[T]) Next() bool {
	if it.rest.head == nil {
		return false
	}
	it.v = it.rest.head.elem
	it.rest = List[T]{head: it.rest.head.next}
	return true
}

// Value returns the current element.  Value returns the zero T if Next has
// not been called.
func (it *Iterator[T]) Value() T {
	return it.v
}

// Rest returns the elements that have not been iterated over.
func (it *Iterator[T]) Rest() List[T] {
	return it.rest
}

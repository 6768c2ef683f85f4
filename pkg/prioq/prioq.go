// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package prioq implements a priority queue ordered by a caller-supplied
// comparison routine, as a thin wrapper around the standard
// container/heap operations.
package prioq

import (
	"container/heap"
)

// items adapts a slice and a comparison routine to heap.Interface.
type items struct {
	list []interface{}
	less func(a, b interface{}) bool
}

func (it *items) Len() int           { return len(it.list) }
func (it *items) Less(i, j int) bool { return it.less(it.list[i], it.list[j]) }
func (it *items) Swap(i, j int)      { it.list[i], it.list[j] = it.list[j], it.list[i] }

func (it *items) Push(x interface{}) {
	it.list = append(it.list, x)
}

func (it *items) Pop() interface{} {
	x := it.list[len(it.list)-1]
	it.list[len(it.list)-1] = nil
	it.list = it.list[:len(it.list)-1]
	return x
}

// Queue is a priority queue.  The zero value is not usable; construct
// one with New.
type Queue struct {
	inner items
}

// New constructs a Queue ordered by the given comparison routine,
// optionally initialized with a set of items.  The comparison routine
// is similar in concept to the less argument to sort.Slice.
func New(less func(a, b interface{}) bool, initial ...interface{}) *Queue {
	q := &Queue{
		inner: items{
			list: append([]interface{}(nil), initial...),
			less: less,
		},
	}
	heap.Init(&q.inner)
	return q
}

// Len returns the number of items in the queue.
func (q *Queue) Len() int {
	return q.inner.Len()
}

// Push pushes one or more items onto the queue.
func (q *Queue) Push(items ...interface{}) {
	for _, item := range items {
		heap.Push(&q.inner, item)
	}
}

// Pop removes and returns the top item from the queue.  It panics if
// the queue is empty; check Len first.  To examine the top item
// without removing it, use Peek.
func (q *Queue) Pop() interface{} {
	return heap.Pop(&q.inner)
}

// Peek returns the top item from the queue without removing it.  It
// panics if the queue is empty.  Do not mutate the returned item in a
// way that changes its ordering without removing it from the queue
// first; doing so violates the heap invariant.
func (q *Queue) Peek() interface{} {
	return q.inner.list[0]
}

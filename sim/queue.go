// Implements the WaitQueue, the FIFO line of requests parked on a ResourcePool.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue is a FIFO queue. The head is the oldest entry.
type WaitQueue[T any] struct {
	queue []T
}

// Enqueue adds an item to the back of the wait queue.
func (wq *WaitQueue[T]) Enqueue(item T) {
	wq.queue = append(wq.queue, item)
}

func (wq *WaitQueue[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of items in the queue.
func (wq *WaitQueue[T]) Len() int {
	return len(wq.queue)
}

// Peek returns the item at the front of the queue without removing it.
// The boolean is false if the queue is empty.
func (wq *WaitQueue[T]) Peek() (T, bool) {
	var zero T
	if len(wq.queue) == 0 {
		return zero, false
	}
	return wq.queue[0], true
}

// Dequeue removes the item at the front of the queue.
func (wq *WaitQueue[T]) Dequeue() (T, bool) {
	var zero T
	if len(wq.queue) == 0 {
		return zero, false
	}
	head := wq.queue[0]
	wq.queue[0] = zero
	wq.queue = wq.queue[1:]
	return head, true
}

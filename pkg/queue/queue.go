package queue

// Queue is a FIFO of pending items shared between producers and a single
// consumer.
type Queue[T any] interface {
	// Enqueue adds an item and reports false when the queue is full.
	Enqueue(item T) bool
	Dequeue() (T, bool)
	Size() int
	ReadAllMessages() []T
	ClearQueue()
}

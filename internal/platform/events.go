package platform

// Event is anything Poll returns. Pointer coordinates are framebuffer
// pixels with the origin at the top left.
type Event interface{}

type Expose struct{}

type KeyPress struct {
	Code  uint64
	Label string
}

type KeyRelease struct {
	Code  uint64
	Label string
}

// Buttons are numbered from 1: left, right, middle.
type ButtonPress struct {
	Button uint32
	X, Y   int
}

type ButtonRelease struct {
	Button uint32
	X, Y   int
}

type MotionNotify struct {
	X, Y int
}

type EnterNotify struct{}
type LeaveNotify struct{}

// Resize reports a new framebuffer size.
type Resize struct {
	Width, Height int
}

type DestroyNotify struct{}

type MouseWheel struct {
	DeltaX float64
	DeltaY float64
	X, Y   int
}

const (
	ButtonLeft   uint32 = 1
	ButtonRight  uint32 = 2
	ButtonMiddle uint32 = 3
)

// queue buffers events between window callbacks and Poll. A full
// queue drops new events rather than blocking the callback.
type queue struct {
	buf        []Event
	head, size int
}

func newQueue(capacity int) *queue {
	return &queue{buf: make([]Event, max(capacity, 1))}
}

func (q *queue) push(e Event) bool {
	if e == nil || q.size == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.size)%len(q.buf)] = e
	q.size++
	return true
}

func (q *queue) pop() (Event, bool) {
	if q.size == 0 {
		return nil, false
	}
	e := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return e, true
}

func (q *queue) len() int { return q.size }

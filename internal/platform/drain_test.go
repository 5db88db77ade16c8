package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	q        *queue
	timeouts []time.Duration
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{q: newQueue(n)}
	for i := range n {
		s.q.push(MotionNotify{X: i})
	}
	return s
}

func (s *fakeSource) poll(timeout time.Duration) (Event, bool) {
	s.timeouts = append(s.timeouts, timeout)
	return s.q.pop()
}

func TestDrainAll(t *testing.T) {
	src := newFakeSource(5)
	var got []Event
	n := DrainAll().Consume(src.poll, func(e Event) { got = append(got, e) }, time.Second)

	assert.Equal(t, 5, n)
	assert.Equal(t, MotionNotify{X: 4}, got[4])
	assert.Equal(t, time.Second, src.timeouts[0])
	for _, d := range src.timeouts[1:] {
		assert.Zero(t, d)
	}
}

func TestDrainMax(t *testing.T) {
	src := newFakeSource(5)
	count := 0
	handle := func(Event) { count++ }

	assert.Equal(t, 3, DrainMax(3).Consume(src.poll, handle, 0))
	assert.Equal(t, 2, DrainMax(3).Consume(src.poll, handle, 0))
	assert.Equal(t, 0, DrainMax(3).Consume(src.poll, handle, 0))
	assert.Equal(t, 5, count)
}

func TestDrainMaxTakesAtLeastOne(t *testing.T) {
	src := newFakeSource(2)
	assert.Equal(t, 1, DrainMax(0).Consume(src.poll, func(Event) {}, 0))
}

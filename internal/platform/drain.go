package platform

import "time"

// Strategy decides how many events one Drain hands over.
type Strategy interface {
	Consume(poll func(timeout time.Duration) (Event, bool), handle func(Event), timeout time.Duration) int
}

type DrainAllStrategy struct{}

// Consume waits up to timeout for the first event, then takes whatever else
// is already queued.
func (DrainAllStrategy) Consume(poll func(time.Duration) (Event, bool), handle func(Event), timeout time.Duration) int {
	return drain(poll, handle, timeout, -1)
}

type DrainMaxStrategy struct {
	Max int
}

func (s DrainMaxStrategy) Consume(poll func(time.Duration) (Event, bool), handle func(Event), timeout time.Duration) int {
	return drain(poll, handle, timeout, max(s.Max, 1))
}

func drain(poll func(time.Duration) (Event, bool), handle func(Event), timeout time.Duration, limit int) int {
	event, ok := poll(timeout)
	if !ok {
		return 0
	}
	handle(event)
	count := 1
	for limit < 0 || count < limit {
		if event, ok = poll(0); !ok {
			break
		}
		handle(event)
		count++
	}
	return count
}

func DrainAll() Strategy { return DrainAllStrategy{} }

func DrainMax(n int) Strategy { return DrainMaxStrategy{Max: n} }

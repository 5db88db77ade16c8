package ambrosia

import "sync/atomic"

// Handle is one holder's share of a scene. Viewers showing the same scene
// each acquire a handle and release it when done.
type Handle struct {
	scene    *Ambrosia
	released atomic.Bool
}

// Acquire returns a new handle and raises the reference count.
func (a *Ambrosia) Acquire() *Handle {
	a.refs.Add(1)
	return &Handle{scene: a}
}

func (h *Handle) Ambrosia() *Ambrosia { return h.scene }

// Release drops the handle's reference. Releasing twice is a no-op. When the
// last reference goes and auto-delete is on, the scene is closed, so the
// final Release must run on the GL goroutine.
func (h *Handle) Release() {
	if h.released.Swap(true) {
		return
	}
	if h.scene.refs.Add(-1) == 0 && h.scene.autoDelete.Load() {
		h.scene.Close()
	}
}

func (a *Ambrosia) RefCount() int { return int(a.refs.Load()) }

// SetAutoDelete chooses whether releasing the last handle closes the scene.
func (a *Ambrosia) SetAutoDelete(on bool) { a.autoDelete.Store(on) }

func (a *Ambrosia) AutoDelete() bool { return a.autoDelete.Load() }

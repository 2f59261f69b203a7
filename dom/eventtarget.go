package dom

import (
	"fmt"
	"log/slog"
)

// ListenerFunc is the callback behind a Listener. A returned error, like a
// panic, is reported to the document logger and does not stop dispatch.
type ListenerFunc func(event *Event) error

// Listener is a registered callback. Go function values cannot be compared,
// so the *Listener pointer is the identity used by RemoveEventListener.
type Listener struct {
	fn ListenerFunc
}

// NewListener wraps fn in a Listener handle.
func NewListener(fn ListenerFunc) *Listener {
	return &Listener{fn: fn}
}

// HandleEvent invokes the callback.
func (l *Listener) HandleEvent(event *Event) error {
	return l.fn(event)
}

// ListenerOptions represents addEventListener options.
type ListenerOptions struct {
	// Capture makes the listener fire during the capture phase instead of
	// the bubble phase. At the target both kinds fire.
	Capture bool
	// Once removes the listener right before its first invocation.
	Once bool
}

// registration is one entry of a node's listener list.
type registration struct {
	id       uint64
	listener *Listener
	capture  bool
	once     bool
}

// listenerRegistry maps an event type to its registrations in insertion order.
type listenerRegistry struct {
	byType map[string][]registration
	nextID uint64
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{byType: make(map[string][]registration)}
}

// add appends a registration. Identical registrations are kept as
// separate entries.
func (r *listenerRegistry) add(eventType string, listener *Listener, opts ListenerOptions) {
	r.nextID++
	r.byType[eventType] = append(r.byType[eventType], registration{
		id:       r.nextID,
		listener: listener,
		capture:  opts.Capture,
		once:     opts.Once,
	})
}

// remove deletes the first registration matching listener and capture.
func (r *listenerRegistry) remove(eventType string, listener *Listener, capture bool) bool {
	regs := r.byType[eventType]
	for i, reg := range regs {
		if reg.listener == listener && reg.capture == capture {
			r.deleteAt(eventType, i)
			return true
		}
	}
	return false
}

// removeByID deletes the registration with the given id from the live list.
func (r *listenerRegistry) removeByID(eventType string, id uint64) bool {
	for i, reg := range r.byType[eventType] {
		if reg.id == id {
			r.deleteAt(eventType, i)
			return true
		}
	}
	return false
}

// deleteAt removes the i-th registration for eventType.
func (r *listenerRegistry) deleteAt(eventType string, i int) {
	regs := r.byType[eventType]
	if len(regs) == 1 {
		delete(r.byType, eventType)
		return
	}
	next := make([]registration, 0, len(regs)-1)
	next = append(next, regs[:i]...)
	next = append(next, regs[i+1:]...)
	r.byType[eventType] = next
}

// snapshot copies the current registrations for eventType.
func (r *listenerRegistry) snapshot(eventType string) []registration {
	regs := make([]registration, len(r.byType[eventType]))
	copy(regs, r.byType[eventType])
	return regs
}

// AddEventListener registers listener for events of eventType on this node.
// Registering the same listener twice yields two entries that both fire.
func (n *Node) AddEventListener(eventType string, listener *Listener, opts ListenerOptions) {
	if listener == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = newListenerRegistry()
	}
	n.listeners.add(eventType, listener, opts)
}

// RemoveEventListener removes the first registration of listener for
// eventType with the same capture flag. It is a no-op when none matches.
func (n *Node) RemoveEventListener(eventType string, listener *Listener, capture bool) {
	if n.listeners == nil || listener == nil {
		return
	}
	n.listeners.remove(eventType, listener, capture)
}

// HasEventListeners returns true if there are any listeners for the event type.
func (n *Node) HasEventListeners(eventType string) bool {
	return n.ListenerCount(eventType) > 0
}

// ListenerCount returns the number of registrations for the event type.
func (n *Node) ListenerCount(eventType string) int {
	if n.listeners == nil {
		return 0
	}
	return len(n.listeners.byType[eventType])
}

// DispatchEvent dispatches event with this node as its target, running the
// capture, target and bubble phases over the node's ancestor path.
// It returns false if a listener called PreventDefault on a cancelable event.
//
// Listener failures are logged and never abort dispatch.
func (n *Node) DispatchEvent(event *Event) bool {
	if event == nil {
		return true
	}

	event.target = n
	path := n.eventPath()
	event.path = path
	last := len(path) - 1

	// Capture: root to target's parent, capture listeners only.
	for i := 0; i < last; i++ {
		if event.propagationStopped {
			break
		}
		event.currentTarget = path[i]
		event.phase = EventPhaseCapturing
		path[i].invokeListeners(event)
	}

	// Target: every listener, whatever its capture flag.
	if !event.propagationStopped {
		event.phase = EventPhaseAtTarget
		event.currentTarget = n
		n.invokeListeners(event)
	}

	// Bubble: target's parent to root, non-capture listeners only.
	if !event.propagationStopped && event.bubbles {
		event.phase = EventPhaseBubbling
		for i := last - 1; i >= 0; i-- {
			if event.propagationStopped {
				break
			}
			event.currentTarget = path[i]
			path[i].invokeListeners(event)
		}
	}

	event.currentTarget = nil
	event.phase = EventPhaseNone
	event.path = nil

	return !event.defaultPrevented
}

// eventPath returns the inclusive ancestors of n, root first.
func (n *Node) eventPath() []*Node {
	var path []*Node
	for node := n; node != nil; node = node.parentNode {
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// invokeListeners runs this node's listeners for the event's current phase.
// It iterates over a snapshot so listeners may add or remove registrations
// without disturbing the loop.
func (n *Node) invokeListeners(event *Event) {
	if n.listeners == nil {
		return
	}
	phase := event.phase
	for _, reg := range n.listeners.snapshot(event.eventType) {
		if event.immediatePropagationStopped {
			return
		}
		if phase == EventPhaseCapturing && !reg.capture {
			continue
		}
		if phase == EventPhaseBubbling && reg.capture {
			continue
		}
		// A once registration that is no longer live was already consumed,
		// e.g. by a nested dispatch.
		if reg.once && !n.listeners.removeByID(event.eventType, reg.id) {
			continue
		}
		if err := callListener(reg.listener, event); err != nil {
			n.dispatchLogger().Error("event listener failed",
				"event_type", event.eventType,
				"phase", phase.String(),
				"node", n.nodeName,
				"error", &ListenerError{EventType: event.eventType, Phase: phase, Err: err},
			)
		}
	}
}

// callListener invokes a listener, converting a panic into an error.
func callListener(listener *Listener, event *Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("listener panic: %w", perr)
			} else {
				err = fmt.Errorf("listener panic: %v", p)
			}
		}
	}()
	return listener.HandleEvent(event)
}

func (n *Node) dispatchLogger() *slog.Logger {
	if n.nodeType == DocumentNode {
		return (*Document)(n).Logger()
	}
	return n.ownerDoc.Logger()
}

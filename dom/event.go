package dom

// EventPhase represents the phase of event dispatch.
type EventPhase uint16

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// String returns the DOM constant name of the phase.
func (p EventPhase) String() string {
	switch p {
	case EventPhaseNone:
		return "NONE"
	case EventPhaseCapturing:
		return "CAPTURING_PHASE"
	case EventPhaseAtTarget:
		return "AT_TARGET"
	case EventPhaseBubbling:
		return "BUBBLING_PHASE"
	default:
		return "UNKNOWN_PHASE"
	}
}

// EventInit configures a new Event. The zero value describes an event that
// neither bubbles nor can be canceled.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	// Detail is an arbitrary payload, as carried by a CustomEvent.
	Detail any
}

// Event represents a DOM event. Bubbles and Cancelable are fixed at
// construction; the propagation state is mutated by DispatchEvent and the
// listeners it invokes.
//
// The stop and default-prevented flags only ever go from false to true and
// are never reset, including when the Event is dispatched again. Create a
// fresh Event per dispatch to start from clean state.
type Event struct {
	eventType  string
	bubbles    bool
	cancelable bool
	detail     any

	phase         EventPhase
	target        *Node
	currentTarget *Node
	path          []*Node

	propagationStopped          bool
	immediatePropagationStopped bool
	defaultPrevented            bool
}

// NewEvent creates an event of the given type.
func NewEvent(eventType string, init EventInit) *Event {
	return &Event{
		eventType:  eventType,
		bubbles:    init.Bubbles,
		cancelable: init.Cancelable,
		detail:     init.Detail,
	}
}

// Type returns the event type, e.g. "click".
func (e *Event) Type() string {
	return e.eventType
}

// Bubbles reports whether the event runs a bubble phase.
func (e *Event) Bubbles() bool {
	return e.bubbles
}

// Cancelable reports whether PreventDefault has any effect.
func (e *Event) Cancelable() bool {
	return e.cancelable
}

// Detail returns the payload given in EventInit.
func (e *Event) Detail() any {
	return e.detail
}

// EventPhase returns the current dispatch phase.
func (e *Event) EventPhase() EventPhase {
	return e.phase
}

// Target returns the node the event was dispatched on.
func (e *Event) Target() *Node {
	return e.target
}

// CurrentTarget returns the node whose listeners are currently running, or
// nil outside of dispatch.
func (e *Event) CurrentTarget() *Node {
	return e.currentTarget
}

// ComposedPath returns the propagation path, root first, while the event is
// being dispatched. It returns an empty slice otherwise.
func (e *Event) ComposedPath() []*Node {
	path := make([]*Node, len(e.path))
	copy(path, e.path)
	return path
}

// DefaultPrevented reports whether a listener canceled the event.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped reports whether StopPropagation or
// StopImmediatePropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

// ImmediatePropagationStopped reports whether StopImmediatePropagation was called.
func (e *Event) ImmediatePropagationStopped() bool {
	return e.immediatePropagationStopped
}

// StopPropagation prevents the event from reaching the next node on its
// path. Remaining listeners on the current node still run.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// StopImmediatePropagation stops propagation and also skips the remaining
// listeners on the current node.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

// PreventDefault marks the event as canceled. It is silently ignored when
// the event is not cancelable.
func (e *Event) PreventDefault() {
	if e.cancelable {
		e.defaultPrevented = true
	}
}

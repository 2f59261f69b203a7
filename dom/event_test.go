package dom

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds document -> root -> a -> b and returns the nodes.
func chain(t *testing.T, opts ...DocumentOption) (doc *Document, root, a, b *Node) {
	t.Helper()
	doc = NewDocument(opts...)
	root = doc.CreateElement("html").AsNode()
	a = doc.CreateElement("div").AsNode()
	b = doc.CreateElement("button").AsNode()
	root.AppendChild(a)
	a.AppendChild(b)
	return doc, root, a, b
}

func recorder(calls *[]string, name string) *Listener {
	return NewListener(func(*Event) error {
		*calls = append(*calls, name)
		return nil
	})
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("click", EventInit{Bubbles: true, Detail: 42})
	assert.Equal(t, "click", e.Type())
	assert.True(t, e.Bubbles())
	assert.False(t, e.Cancelable())
	assert.Equal(t, 42, e.Detail())
	assert.Equal(t, EventPhaseNone, e.EventPhase())
	assert.Nil(t, e.Target())
	assert.Nil(t, e.CurrentTarget())
	assert.False(t, e.PropagationStopped())
	assert.False(t, e.ImmediatePropagationStopped())
	assert.False(t, e.DefaultPrevented())
	assert.Empty(t, e.ComposedPath())
}

func TestEvent_PreventDefault(t *testing.T) {
	e := NewEvent("submit", EventInit{})
	e.PreventDefault()
	assert.False(t, e.DefaultPrevented(), "non-cancelable events ignore PreventDefault")

	c := NewEvent("submit", EventInit{Cancelable: true})
	c.PreventDefault()
	assert.True(t, c.DefaultPrevented())
}

func TestEvent_StopFlags(t *testing.T) {
	e := NewEvent("x", EventInit{})
	e.StopPropagation()
	assert.True(t, e.PropagationStopped())
	assert.False(t, e.ImmediatePropagationStopped())

	e2 := NewEvent("x", EventInit{})
	e2.StopImmediatePropagation()
	assert.True(t, e2.PropagationStopped())
	assert.True(t, e2.ImmediatePropagationStopped())
}

func TestEventPhase_String(t *testing.T) {
	assert.Equal(t, "NONE", EventPhaseNone.String())
	assert.Equal(t, "CAPTURING_PHASE", EventPhaseCapturing.String())
	assert.Equal(t, "AT_TARGET", EventPhaseAtTarget.String())
	assert.Equal(t, "BUBBLING_PHASE", EventPhaseBubbling.String())
	assert.Equal(t, "UNKNOWN_PHASE", EventPhase(9).String())
}

func TestDispatch_Order(t *testing.T) {
	_, root, a, b := chain(t)
	var calls []string

	root.AddEventListener("click", recorder(&calls, "root-capture"), ListenerOptions{Capture: true})
	root.AddEventListener("click", recorder(&calls, "root-bubble"), ListenerOptions{})
	a.AddEventListener("click", recorder(&calls, "a-bubble"), ListenerOptions{})
	a.AddEventListener("click", recorder(&calls, "a-capture"), ListenerOptions{Capture: true})
	b.AddEventListener("click", recorder(&calls, "b-capture"), ListenerOptions{Capture: true})
	b.AddEventListener("click", recorder(&calls, "b-bubble"), ListenerOptions{})

	ok := b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.True(t, ok)
	assert.Equal(t, []string{
		"root-capture", "a-capture",
		"b-capture", "b-bubble",
		"a-bubble", "root-bubble",
	}, calls)
}

func TestDispatch_SpecOrderingExample(t *testing.T) {
	_, root, a, b := chain(t)
	var calls []string

	root.AddEventListener("click", recorder(&calls, "root-capture"), ListenerOptions{Capture: true})
	b.AddEventListener("click", recorder(&calls, "b-capture"), ListenerOptions{Capture: true})
	b.AddEventListener("click", recorder(&calls, "b-non-capture"), ListenerOptions{})
	a.AddEventListener("click", recorder(&calls, "a-non-capture"), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, []string{"root-capture", "b-capture", "b-non-capture", "a-non-capture"}, calls)
}

func TestDispatch_TargetFiresInRegistrationOrder(t *testing.T) {
	_, _, _, b := chain(t)
	var calls []string
	b.AddEventListener("click", recorder(&calls, "bubble-1"), ListenerOptions{})
	b.AddEventListener("click", recorder(&calls, "capture"), ListenerOptions{Capture: true})
	b.AddEventListener("click", recorder(&calls, "bubble-2"), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{}))

	assert.Equal(t, []string{"bubble-1", "capture", "bubble-2"}, calls)
}

func TestDispatch_NonBubblingSkipsBubblePhase(t *testing.T) {
	_, root, a, b := chain(t)
	var calls []string
	root.AddEventListener("focus", recorder(&calls, "root-capture"), ListenerOptions{Capture: true})
	a.AddEventListener("focus", recorder(&calls, "a-bubble"), ListenerOptions{})
	b.AddEventListener("focus", recorder(&calls, "b"), ListenerOptions{})

	b.DispatchEvent(NewEvent("focus", EventInit{Bubbles: false}))

	assert.Equal(t, []string{"root-capture", "b"}, calls)
}

func TestDispatch_PhaseAndTargets(t *testing.T) {
	doc, root, a, b := chain(t)
	type seen struct {
		name    string
		phase   EventPhase
		target  *Node
		current *Node
		path    int
	}
	var got []seen
	observe := func(name string) *Listener {
		return NewListener(func(e *Event) error {
			got = append(got, seen{name, e.EventPhase(), e.Target(), e.CurrentTarget(), len(e.ComposedPath())})
			return nil
		})
	}
	doc.AsNode().AppendChild(root)
	root.AddEventListener("x", observe("root"), ListenerOptions{Capture: true})
	b.AddEventListener("x", observe("b"), ListenerOptions{})
	a.AddEventListener("x", observe("a"), ListenerOptions{})

	event := NewEvent("x", EventInit{Bubbles: true})
	b.DispatchEvent(event)

	require.Len(t, got, 3)
	assert.Equal(t, seen{"root", EventPhaseCapturing, b, root, 4}, got[0])
	assert.Equal(t, seen{"b", EventPhaseAtTarget, b, b, 4}, got[1])
	assert.Equal(t, seen{"a", EventPhaseBubbling, b, a, 4}, got[2])

	assert.Equal(t, b, event.Target())
	assert.Nil(t, event.CurrentTarget())
	assert.Equal(t, EventPhaseNone, event.EventPhase())
	assert.Empty(t, event.ComposedPath())
}

func TestDispatch_ReachesDocument(t *testing.T) {
	doc, root, _, b := chain(t)
	doc.AsNode().AppendChild(root)
	var calls []string
	doc.AsNode().AddEventListener("click", recorder(&calls, "doc-capture"), ListenerOptions{Capture: true})
	doc.AsNode().AddEventListener("click", recorder(&calls, "doc-bubble"), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, []string{"doc-capture", "doc-bubble"}, calls)
}

func TestDispatch_StopPropagationInCapture(t *testing.T) {
	_, root, a, b := chain(t)
	var calls []string
	root.AddEventListener("click", NewListener(func(e *Event) error {
		calls = append(calls, "root-stop")
		e.StopPropagation()
		return nil
	}), ListenerOptions{Capture: true})
	root.AddEventListener("click", recorder(&calls, "root-capture-2"), ListenerOptions{Capture: true})
	a.AddEventListener("click", recorder(&calls, "a-capture"), ListenerOptions{Capture: true})
	a.AddEventListener("click", recorder(&calls, "a-bubble"), ListenerOptions{})
	b.AddEventListener("click", recorder(&calls, "b"), ListenerOptions{})

	ok := b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.True(t, ok)
	assert.Equal(t, []string{"root-stop", "root-capture-2"}, calls,
		"stopPropagation lets the current node finish but halts the path")
}

func TestDispatch_StopPropagationAtTargetSkipsBubble(t *testing.T) {
	_, _, a, b := chain(t)
	var calls []string
	b.AddEventListener("click", NewListener(func(e *Event) error {
		calls = append(calls, "b-stop")
		e.StopPropagation()
		return nil
	}), ListenerOptions{})
	b.AddEventListener("click", recorder(&calls, "b-2"), ListenerOptions{})
	a.AddEventListener("click", recorder(&calls, "a-bubble"), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, []string{"b-stop", "b-2"}, calls)
}

func TestDispatch_StopImmediatePropagation(t *testing.T) {
	_, root, a, b := chain(t)
	var calls []string
	a.AddEventListener("click", recorder(&calls, "a-1"), ListenerOptions{Capture: true})
	a.AddEventListener("click", NewListener(func(e *Event) error {
		calls = append(calls, "a-stop")
		e.StopImmediatePropagation()
		return nil
	}), ListenerOptions{Capture: true})
	a.AddEventListener("click", recorder(&calls, "a-3"), ListenerOptions{Capture: true})
	b.AddEventListener("click", recorder(&calls, "b"), ListenerOptions{})
	root.AddEventListener("click", recorder(&calls, "root-bubble"), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, []string{"a-1", "a-stop"}, calls)
}

func TestDispatch_Once(t *testing.T) {
	_, _, _, b := chain(t)
	count := 0
	l := NewListener(func(*Event) error {
		count++
		return nil
	})
	b.AddEventListener("click", l, ListenerOptions{Once: true})

	b.DispatchEvent(NewEvent("click", EventInit{}))
	b.DispatchEvent(NewEvent("click", EventInit{}))

	assert.Equal(t, 1, count)
	assert.False(t, b.HasEventListeners("click"))
}

func TestDispatch_OnceRemovedBeforeInvocation(t *testing.T) {
	_, _, _, b := chain(t)
	var countDuring int
	l := NewListener(func(*Event) error {
		countDuring = b.ListenerCount("click")
		return nil
	})
	b.AddEventListener("click", l, ListenerOptions{Once: true})

	b.DispatchEvent(NewEvent("click", EventInit{}))

	assert.Equal(t, 0, countDuring)
}

func TestDispatch_OnceSurvivesNestedDispatch(t *testing.T) {
	_, _, _, b := chain(t)
	count := 0
	var once *Listener
	nested := NewListener(func(*Event) error {
		b.DispatchEvent(NewEvent("click", EventInit{}))
		return nil
	})
	once = NewListener(func(*Event) error {
		count++
		return nil
	})
	b.AddEventListener("click", nested, ListenerOptions{Once: true})
	b.AddEventListener("click", once, ListenerOptions{Once: true})

	b.DispatchEvent(NewEvent("click", EventInit{}))

	assert.Equal(t, 1, count, "a once listener consumed by a nested dispatch must not fire again")
}

func TestDispatch_ReturnValue(t *testing.T) {
	_, _, _, b := chain(t)
	b.AddEventListener("submit", NewListener(func(e *Event) error {
		e.PreventDefault()
		return nil
	}), ListenerOptions{})

	assert.True(t, b.DispatchEvent(NewEvent("submit", EventInit{Cancelable: false})))
	assert.False(t, b.DispatchEvent(NewEvent("submit", EventInit{Cancelable: true})))
}

func TestDispatch_ReusedEventKeepsFlags(t *testing.T) {
	_, _, a, b := chain(t)
	var calls []string
	b.AddEventListener("click", NewListener(func(e *Event) error {
		calls = append(calls, "b")
		e.StopPropagation()
		return nil
	}), ListenerOptions{})
	a.AddEventListener("click", recorder(&calls, "a"), ListenerOptions{})

	event := NewEvent("click", EventInit{Bubbles: true})
	b.DispatchEvent(event)
	a.DispatchEvent(event)

	assert.Equal(t, []string{"b"}, calls, "a stopped event stays stopped")
	assert.Equal(t, a, event.Target())
}

func TestDispatch_SnapshotIsolation(t *testing.T) {
	_, _, _, b := chain(t)
	var calls []string
	late := recorder(&calls, "late")
	var second *Listener
	first := NewListener(func(*Event) error {
		calls = append(calls, "first")
		b.AddEventListener("click", late, ListenerOptions{})
		b.RemoveEventListener("click", second, false)
		return nil
	})
	second = recorder(&calls, "second")
	b.AddEventListener("click", first, ListenerOptions{})
	b.AddEventListener("click", second, ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, []string{"first", "second"}, calls,
		"the running dispatch iterates the snapshot taken before invocation")

	calls = nil
	b.DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, []string{"first", "late"}, calls,
		"mutations are visible to the next dispatch")
	assert.Equal(t, 3, b.ListenerCount("click"))
}

func TestListener_DuplicatesAndRemoval(t *testing.T) {
	_, _, _, b := chain(t)
	count := 0
	l := NewListener(func(*Event) error {
		count++
		return nil
	})
	b.AddEventListener("click", l, ListenerOptions{})
	b.AddEventListener("click", l, ListenerOptions{})
	assert.Equal(t, 2, b.ListenerCount("click"))

	b.DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, 2, count, "duplicate registrations both fire")

	b.RemoveEventListener("click", l, true)
	assert.Equal(t, 2, b.ListenerCount("click"), "capture flag must match")

	b.RemoveEventListener("click", l, false)
	assert.Equal(t, 1, b.ListenerCount("click"), "removal takes the first match only")

	b.RemoveEventListener("click", l, false)
	assert.False(t, b.HasEventListeners("click"))

	assert.NotPanics(t, func() {
		b.RemoveEventListener("missing", l, false)
		b.RemoveEventListener("click", nil, false)
		b.AddEventListener("click", nil, ListenerOptions{})
	})
	assert.True(t, b.DispatchEvent(nil))
}

func TestDispatch_ListenerFailureIsolation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	_, root, a, b := chain(t, WithLogger(logger))
	var calls []string

	boom := errors.New("boom")
	a.AddEventListener("click", NewListener(func(*Event) error {
		calls = append(calls, "a-capture-error")
		return boom
	}), ListenerOptions{Capture: true})
	b.AddEventListener("click", NewListener(func(*Event) error {
		calls = append(calls, "b-panic")
		panic("listener exploded")
	}), ListenerOptions{})
	b.AddEventListener("click", recorder(&calls, "b-after"), ListenerOptions{})
	root.AddEventListener("click", recorder(&calls, "root-bubble"), ListenerOptions{})

	var ok bool
	require.NotPanics(t, func() {
		ok = b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))
	})

	assert.True(t, ok)
	assert.Equal(t, []string{"a-capture-error", "b-panic", "b-after", "root-bubble"}, calls)
	out := buf.String()
	assert.Contains(t, out, "event listener failed")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "listener exploded")
	assert.Contains(t, out, "event_type=click")
	assert.Contains(t, out, "phase=CAPTURING_PHASE")
	assert.Contains(t, out, "phase=AT_TARGET")
}

func TestListenerError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := &ListenerError{EventType: "click", Phase: EventPhaseBubbling, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "BUBBLING_PHASE")
}

func TestDispatch_NestedDispatchIsIndependent(t *testing.T) {
	doc, root, a, b := chain(t)
	other := doc.CreateElement("aside").AsNode()
	root.AppendChild(other)

	var outerPhase EventPhase
	var outerCurrent *Node
	var innerTarget *Node
	other.AddEventListener("ping", NewListener(func(e *Event) error {
		innerTarget = e.Target()
		return nil
	}), ListenerOptions{})
	a.AddEventListener("click", NewListener(func(e *Event) error {
		other.DispatchEvent(NewEvent("ping", EventInit{Bubbles: true}))
		outerPhase = e.EventPhase()
		outerCurrent = e.CurrentTarget()
		return nil
	}), ListenerOptions{})

	b.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, other, innerTarget)
	assert.Equal(t, EventPhaseBubbling, outerPhase)
	assert.Equal(t, a, outerCurrent)
}

func TestDispatch_DetachedNode(t *testing.T) {
	doc := NewDocument()
	lone := doc.CreateElement("p").AsNode()
	var phase EventPhase
	lone.AddEventListener("x", NewListener(func(e *Event) error {
		phase = e.EventPhase()
		return nil
	}), ListenerOptions{Capture: true})

	assert.True(t, lone.DispatchEvent(NewEvent("x", EventInit{Bubbles: true})))
	assert.Equal(t, EventPhaseAtTarget, phase)
}

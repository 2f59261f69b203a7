package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/minidom/dom"
)

func TestEventBasic(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var clicked = false;
		document.addEventListener('click', function() {
			clicked = true;
		});
		document.dispatchEvent(new Event('click'));
	`)

	assert.Equal(t, "true", eval(t, r, "clicked"))
}

func TestEventRemoveListener(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var count = 0;
		function handler() {
			count++;
		}
		document.body.addEventListener('test', handler);
		document.body.dispatchEvent(new Event('test'));
		document.body.removeEventListener('test', handler);
		document.body.dispatchEvent(new Event('test'));
	`)

	assert.Equal(t, "1", eval(t, r, "count"))
}

func TestEventRemoveRequiresMatchingCapture(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var count = 0;
		function handler() { count++; }
		document.body.addEventListener('test', handler, true);
		document.body.removeEventListener('test', handler);
		document.body.dispatchEvent(new Event('test'));
		document.body.removeEventListener('test', handler, { capture: true });
		document.body.dispatchEvent(new Event('test'));
		document.body.removeEventListener('test', function() {});
	`)

	assert.Equal(t, "1", eval(t, r, "count"))
}

func TestEventPropagationOrder(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var log = [];
		var outer = document.createElement('div');
		var inner = document.createElement('button');
		outer.appendChild(inner);
		document.body.appendChild(outer);

		document.addEventListener('click', function(e) { log.push('document-capture:' + e.eventPhase); }, true);
		outer.addEventListener('click', function(e) { log.push('outer-capture:' + e.eventPhase); }, { capture: true });
		inner.addEventListener('click', function(e) { log.push('inner:' + e.eventPhase); });
		outer.addEventListener('click', function(e) { log.push('outer-bubble:' + e.eventPhase); });
		document.addEventListener('click', function(e) { log.push('document-bubble:' + e.eventPhase); });

		inner.dispatchEvent(new Event('click', { bubbles: true }));
	`)

	assert.Equal(t,
		"document-capture:1,outer-capture:1,inner:2,outer-bubble:3,document-bubble:3",
		eval(t, r, "log.join(',')"))
}

func TestEventNonBubbling(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var log = [];
		document.body.addEventListener('focus', function() { log.push('body'); });
		var input = document.createElement('input');
		document.body.appendChild(input);
		input.addEventListener('focus', function() { log.push('input'); });
		input.dispatchEvent(new Event('focus'));
	`)

	assert.Equal(t, "input", eval(t, r, "log.join(',')"))
}

func TestEventTargets(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var seen = [];
		var child = document.createElement('span');
		document.body.appendChild(child);
		document.body.addEventListener('ping', function(e) {
			seen.push(e.target === child, e.currentTarget === document.body, this === document.body);
			seen.push(e.composedPath().length, e.composedPath()[0] === child);
		});
		var ev = new Event('ping', { bubbles: true });
		child.dispatchEvent(ev);
		seen.push(ev.currentTarget === null, ev.eventPhase === ev.NONE);
	`)

	assert.Equal(t, "true,true,true,4,true,true,true", eval(t, r, "seen.join(',')"))
}

func TestEventStopPropagation(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var log = [];
		var child = document.createElement('span');
		document.body.appendChild(child);
		child.addEventListener('click', function(e) { log.push('a'); e.stopPropagation(); });
		child.addEventListener('click', function() { log.push('b'); });
		document.body.addEventListener('click', function() { log.push('body'); });
		child.dispatchEvent(new Event('click', { bubbles: true }));
	`)

	assert.Equal(t, "a,b", eval(t, r, "log.join(',')"))
}

func TestEventStopImmediatePropagation(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var log = [];
		var child = document.createElement('span');
		document.body.appendChild(child);
		child.addEventListener('click', function(e) { log.push('a'); e.stopImmediatePropagation(); });
		child.addEventListener('click', function() { log.push('b'); });
		document.body.addEventListener('click', function() { log.push('body'); });
		child.dispatchEvent(new Event('click', { bubbles: true }));
	`)

	assert.Equal(t, "a", eval(t, r, "log.join(',')"))
}

func TestEventPreventDefault(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		document.body.addEventListener('submit', function(e) { e.preventDefault(); });
		var plain = document.body.dispatchEvent(new Event('submit'));
		var cancelable = new Event('submit', { cancelable: true });
		var result = document.body.dispatchEvent(cancelable);
	`)

	assert.Equal(t, "true", eval(t, r, "plain"))
	assert.Equal(t, "false", eval(t, r, "result"))
	assert.Equal(t, "true", eval(t, r, "cancelable.defaultPrevented"))
}

func TestEventOnce(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var count = 0;
		document.body.addEventListener('tick', function() { count++; }, { once: true });
		document.body.dispatchEvent(new Event('tick'));
		document.body.dispatchEvent(new Event('tick'));
	`)

	assert.Equal(t, "1", eval(t, r, "count"))
}

func TestEventDuplicateRegistrations(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var count = 0;
		function handler() { count++; }
		document.body.addEventListener('x', handler);
		document.body.addEventListener('x', handler);
		document.body.dispatchEvent(new Event('x'));
		document.body.removeEventListener('x', handler);
		document.body.dispatchEvent(new Event('x'));
	`)

	assert.Equal(t, "3", eval(t, r, "count"))
}

func TestCustomEventDetail(t *testing.T) {
	r, _, _ := setupDocument(t)

	run(t, r, `
		var received;
		document.body.addEventListener('data', function(e) { received = e.detail.value; });
		document.body.dispatchEvent(new CustomEvent('data', { detail: { value: 42 } }));
	`)

	assert.Equal(t, "42", eval(t, r, "received"))
	assert.Equal(t, "null", eval(t, r, "String(new CustomEvent('x').detail)"))
	assert.Equal(t, "true,false", eval(t, r, `
		var e = new CustomEvent('x', { bubbles: true });
		[e.bubbles, e.cancelable].join(',');
	`))
}

func TestEventListenerExceptionIsIsolated(t *testing.T) {
	r, _, logs := setupDocument(t)

	run(t, r, `
		var after = false;
		document.body.addEventListener('boom', function() { throw new Error('listener failed'); });
		document.body.addEventListener('boom', function() { after = true; });
		var returned = document.body.dispatchEvent(new Event('boom'));
	`)

	assert.Equal(t, "true", eval(t, r, "after"))
	assert.Equal(t, "true", eval(t, r, "returned"))
	assert.Contains(t, logs.String(), "event listener failed")
	assert.Contains(t, logs.String(), "listener failed")
	assert.Empty(t, r.Errors(), "listener failures do not fail the script")
}

func TestDispatchEventRequiresEvent(t *testing.T) {
	r, _, _ := setupDocument(t)

	assert.Equal(t, "TypeError", eval(t, r, `
		var n;
		try { document.dispatchEvent({ type: 'fake' }); } catch (e) { n = e.name; }
		n;
	`))
}

func TestGoDispatchReachesJSListeners(t *testing.T) {
	r, doc, _ := setupDocument(t)

	run(t, r, `
		var got = [];
		document.body.addEventListener('ready', function(e) {
			got.push(e.type, e.detail, e.target === document.body);
		});
	`)

	body := doc.FindFirst(dom.ByTagName("body"))
	require.NotNil(t, body)
	ok := body.AsNode().DispatchEvent(dom.NewEvent("ready", dom.EventInit{Detail: "from-go"}))

	assert.True(t, ok)
	assert.Equal(t, "ready,from-go,true", eval(t, r, "got.join(',')"))
}

func TestJSListenerObservesGoListener(t *testing.T) {
	r, doc, _ := setupDocument(t)
	body := doc.FindFirst(dom.ByTagName("body"))
	require.NotNil(t, body)

	body.AsNode().AddEventListener("click", dom.NewListener(func(e *dom.Event) error {
		e.PreventDefault()
		return nil
	}), dom.ListenerOptions{Capture: true})

	run(t, r, `
		var prevented;
		document.body.addEventListener('click', function(e) { prevented = e.defaultPrevented; });
		var result = document.body.dispatchEvent(new Event('click', { cancelable: true }));
	`)

	assert.Equal(t, "true", eval(t, r, "prevented"))
	assert.Equal(t, "false", eval(t, r, "result"))
}

package js

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerOrdering(t *testing.T) {
	r := NewRuntime()

	_, err := r.Execute(`
		var log = [];
		setTimeout(function() { log.push('t10'); }, 10);
		setTimeout(function(a, b) { log.push('t0:' + a + b); }, 0, 'x', 'y');
		setTimeout(function() { log.push('t0-second'); }, 0);
		queueMicrotask(function() { log.push('micro'); });
		log.push('sync');
	`)
	require.NoError(t, err)
	assert.Equal(t, 4, r.PendingTasks())

	require.NoError(t, r.RunPending(context.Background()))

	result, err := r.Execute("log.join(',')")
	require.NoError(t, err)
	assert.Equal(t, "sync,micro,t0:xy,t0-second,t10", result.String())
	assert.Zero(t, r.PendingTasks())
}

func TestSchedulerMicrotasksBeforeNextTimer(t *testing.T) {
	r := NewRuntime()

	_, err := r.Execute(`
		var log = [];
		setTimeout(function() {
			log.push('a');
			queueMicrotask(function() { log.push('a-micro'); });
		}, 0);
		setTimeout(function() { log.push('b'); }, 0);
	`)
	require.NoError(t, err)
	require.NoError(t, r.RunPending(context.Background()))

	result, _ := r.Execute("log.join(',')")
	assert.Equal(t, "a,a-micro,b", result.String())
}

func TestSchedulerClearTimers(t *testing.T) {
	r := NewRuntime()

	_, err := r.Execute(`
		var count = 0;
		var skipped = setTimeout(function() { count += 100; }, 0);
		clearTimeout(skipped);
		var id = setInterval(function() {
			count++;
			if (count === 3) clearInterval(id);
		}, 1);
	`)
	require.NoError(t, err)
	require.NoError(t, r.RunPending(context.Background()))

	result, _ := r.Execute("count")
	assert.EqualValues(t, 3, result.ToInteger())
}

func TestSchedulerContextDeadline(t *testing.T) {
	r := NewRuntime()

	_, err := r.Execute(`setTimeout(function() {}, 60000);`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.RunPending(ctx), context.DeadlineExceeded)
	assert.Equal(t, 1, r.PendingTasks())

	r.CancelPendingTasks()
	assert.Zero(t, r.PendingTasks())
}

func TestSchedulerCallbackErrorIsRecorded(t *testing.T) {
	r, logs := newLoggedRuntime()

	_, err := r.Execute(`
		var after = false;
		setTimeout(function() { throw new Error('timer broke'); }, 0);
		setTimeout(function() { after = true; }, 0);
	`)
	require.NoError(t, err)
	require.NoError(t, r.RunPending(context.Background()))

	result, _ := r.Execute("after")
	assert.True(t, result.ToBoolean())
	require.Len(t, r.Errors(), 1)
	assert.Contains(t, r.Errors()[0].Error(), "timer broke")
	assert.Contains(t, logs.String(), "script error")
}

func TestSchedulerRequiresFunction(t *testing.T) {
	r := NewRuntime()

	result, err := r.Execute(`
		var names = [];
		try { setTimeout('code', 0); } catch (e) { names.push(e.name); }
		try { queueMicrotask(42); } catch (e) { names.push(e.name); }
		names.join(',');
	`)
	require.NoError(t, err)
	assert.Equal(t, "TypeError,TypeError", result.String())
}

func TestSchedulerZeroDelayIntervalRepeats(t *testing.T) {
	r := NewRuntime()

	_, err := r.Execute(`
		var zero = 0, negative = 0;
		var a = setInterval(function() {
			zero++;
			if (zero === 3) clearInterval(a);
		}, 0);
		var b = setInterval(function() {
			negative++;
			if (negative === 2) clearInterval(b);
		}, -5);
	`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.RunPending(ctx))

	result, _ := r.Execute("zero + ',' + negative")
	assert.Equal(t, "3,2", result.String())
	assert.Zero(t, r.PendingTasks())
}

package lifecycle

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLifecycle(t *testing.T) (*Lifecycle, *[]State) {
	t.Helper()
	l := New("test", zerolog.Nop())
	var seen []State
	l.OnTransition(func(_ string, _, to State) {
		seen = append(seen, to)
	})
	return l, &seen
}

func TestBeginResolveSuccess(t *testing.T) {
	l, seen := newTestLifecycle(t)
	assert.True(t, l.Enabled())

	tok, ok := l.Begin()
	require.True(t, ok)
	assert.Equal(t, Pending, l.State())
	assert.False(t, l.Enabled())

	assert.True(t, l.Resolve(tok, nil))
	assert.Equal(t, Idle, l.State())
	assert.True(t, l.Enabled())
	assert.Equal(t, Succeeded, l.Outcome().State)
	assert.Equal(t, []State{Pending, Succeeded, Idle}, *seen)
}

func TestResolveFailureFinalizesToIdle(t *testing.T) {
	l, seen := newTestLifecycle(t)
	tok, _ := l.Begin()

	assert.True(t, l.Resolve(tok, errors.New("boom")))
	assert.Equal(t, Idle, l.State())
	assert.Equal(t, Outcome{State: Failed, Message: "boom"}, l.Outcome())
	assert.Equal(t, []State{Pending, Failed, Idle}, *seen)
}

func TestBeginRefusedWhilePending(t *testing.T) {
	l, _ := newTestLifecycle(t)
	first, ok := l.Begin()
	require.True(t, ok)

	_, ok = l.Begin()
	assert.False(t, ok)
	assert.True(t, l.Current(first))
}

func TestRestartDiscardsStaleResponse(t *testing.T) {
	l, _ := newTestLifecycle(t)
	first := l.Restart()
	second := l.Restart()
	require.NotEqual(t, first, second)

	// the older response arrives after the newer request started
	assert.False(t, l.Resolve(first, errors.New("late")))
	assert.Equal(t, Pending, l.State())
	assert.Equal(t, Outcome{}, l.Outcome())

	assert.True(t, l.Resolve(second, nil))
	assert.Equal(t, Succeeded, l.Outcome().State)
}

func TestResolveAfterFinalizeIsStale(t *testing.T) {
	l, _ := newTestLifecycle(t)
	tok, _ := l.Begin()
	require.True(t, l.Resolve(tok, nil))

	assert.False(t, l.Resolve(tok, errors.New("duplicate")))
	assert.Equal(t, Succeeded, l.Outcome().State)
}

func TestReject(t *testing.T) {
	l, seen := newTestLifecycle(t)
	l.Reject("Please select a cryptocurrency")

	assert.Equal(t, Idle, l.State())
	assert.Equal(t, Outcome{State: Failed, Message: "Please select a cryptocurrency"}, l.Outcome())
	assert.Equal(t, []State{Failed, Idle}, *seen)

	tok, ok := l.Begin()
	require.True(t, ok)
	l.Reject("ignored")
	assert.Equal(t, Pending, l.State())
	assert.True(t, l.Current(tok))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
}

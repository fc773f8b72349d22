// Package lifecycle tracks one asynchronous request flow:
// Idle -> Pending -> Succeeded|Failed -> Idle.
//
// Every start hands out a generation Token. A resolution is applied only when
// it carries the latest token, so a late response for a superseded request is
// discarded without touching state.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// State is a lifecycle phase.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrBusy is returned by guarded starts while a request is pending.
var ErrBusy = errors.New("request already in progress")

// Token identifies one started request.
type Token uint64

// Outcome is the result of the most recent resolution.
type Outcome struct {
	State   State // Succeeded or Failed, Idle before any resolution
	Message string
}

// TransitionFunc observes every state change.
type TransitionFunc func(name string, from, to State)

// Lifecycle is not safe for concurrent use. It is owned by the update loop.
type Lifecycle struct {
	name    string
	state   State
	gen     Token
	outcome Outcome
	log     zerolog.Logger
	hooks   []TransitionFunc
}

// New creates an Idle lifecycle.
func New(name string, log zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		name: name,
		log:  log.With().Str("lifecycle", name).Logger(),
	}
}

// OnTransition registers fn to be called on every state change.
func (l *Lifecycle) OnTransition(fn TransitionFunc) {
	l.hooks = append(l.hooks, fn)
}

func (l *Lifecycle) Name() string     { return l.name }
func (l *Lifecycle) State() State     { return l.state }
func (l *Lifecycle) Outcome() Outcome { return l.outcome }
func (l *Lifecycle) Pending() bool    { return l.state == Pending }

// Enabled is the control affordance: false exactly while Pending.
func (l *Lifecycle) Enabled() bool {
	return l.state != Pending
}

// Current reports whether tok is the latest generation.
func (l *Lifecycle) Current(tok Token) bool {
	return tok == l.gen
}

// Begin starts a request unless one is already pending.
func (l *Lifecycle) Begin() (Token, bool) {
	if l.state == Pending {
		l.log.Debug().Msg("start refused while pending")
		return 0, false
	}
	return l.start(), true
}

// Restart starts a request, superseding any that is still pending.
func (l *Lifecycle) Restart() Token {
	if l.state == Pending {
		l.log.Debug().Uint64("superseded", uint64(l.gen)).Msg("restarting pending request")
	}
	return l.start()
}

func (l *Lifecycle) start() Token {
	l.gen++
	l.outcome = Outcome{}
	l.transition(Pending)
	return l.gen
}

// Resolve applies the result of the request identified by tok. A nil err
// records success. The lifecycle always finalizes back to Idle. It returns
// false, and changes nothing, when tok is stale or nothing is pending.
func (l *Lifecycle) Resolve(tok Token, err error) bool {
	if tok != l.gen || l.state != Pending {
		l.log.Debug().
			Uint64("token", uint64(tok)).
			Uint64("current", uint64(l.gen)).
			Msg("discarding stale response")
		return false
	}
	if err != nil {
		l.outcome = Outcome{State: Failed, Message: err.Error()}
		l.transition(Failed)
	} else {
		l.outcome = Outcome{State: Succeeded}
		l.transition(Succeeded)
	}
	l.transition(Idle)
	return true
}

// Reject records a local validation failure without starting a request.
// A pending request is left alone.
func (l *Lifecycle) Reject(msg string) {
	if l.state == Pending {
		return
	}
	l.outcome = Outcome{State: Failed, Message: msg}
	l.transition(Failed)
	l.transition(Idle)
}

func (l *Lifecycle) transition(to State) {
	from := l.state
	l.state = to
	l.log.Debug().Stringer("from", from).Stringer("to", to).Uint64("gen", uint64(l.gen)).Msg("transition")
	for _, fn := range l.hooks {
		fn(l.name, from, to)
	}
}

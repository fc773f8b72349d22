// Package theme holds the dark-mode flag and the colors derived from it.
package theme

import (
	"strconv"

	"github.com/rs/zerolog"
)

// PreferenceKey is the storage key of the dark-mode flag.
const PreferenceKey = "darkMode"

const (
	IconDark  = "☀" // shown while dark: switch to light
	IconLight = "☾"
)

// Store persists the flag between runs.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// State is the single dark-mode flag. It is read once at startup and written
// back on every change.
type State struct {
	dark  bool
	store Store
	log   zerolog.Logger
	subs  []func(dark bool)
}

// Load reads the persisted flag. A missing, unreadable or malformed value
// starts in light mode.
func Load(store Store, log zerolog.Logger) *State {
	s := &State{store: store, log: log.With().Str("component", "theme").Logger()}
	if store == nil {
		return s
	}
	raw, ok, err := store.Get(PreferenceKey)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("read theme preference")
	case ok:
		dark, perr := strconv.ParseBool(raw)
		if perr != nil {
			s.log.Warn().Str("value", raw).Msg("ignoring malformed theme preference")
			break
		}
		s.dark = dark
	}
	return s
}

func (s *State) Dark() bool {
	return s.dark
}

// Icon is the glyph of the toggle control.
func (s *State) Icon() string {
	if s.dark {
		return IconDark
	}
	return IconLight
}

// Palette is the current color set.
func (s *State) Palette() Palette {
	return PaletteFor(s.dark)
}

// Subscribe registers fn to run after every change.
func (s *State) Subscribe(fn func(dark bool)) {
	s.subs = append(s.subs, fn)
}

// Toggle flips the flag, persists it and notifies subscribers. The in-memory
// flag changes even when persisting fails; the error is returned so the caller
// can report it.
func (s *State) Toggle() error {
	s.dark = !s.dark
	var err error
	if s.store != nil {
		if err = s.store.Set(PreferenceKey, strconv.FormatBool(s.dark)); err != nil {
			s.log.Error().Err(err).Bool("dark", s.dark).Msg("persist theme preference")
		}
	}
	for _, fn := range s.subs {
		fn(s.dark)
	}
	return err
}

package runtime

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// State is the load state of a Handle.
type State int

const (
	Unloaded State = iota
	Loaded
)

// String returns "unloaded" or "loaded".
func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// Status is a point-in-time view of a Handle.
type Status struct {
	State    State     `json:"-"`
	Loaded   bool      `json:"loaded"`
	Source   string    `json:"source,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

// Handle owns the currently loaded runtime. The zero value is Unloaded and
// ready to use. A runtime is loaded once and then only read; replacing it
// swaps the pointer, so in-flight predictions finish on the old runtime.
type Handle struct {
	mu       sync.RWMutex
	rt       Runtime
	source   string
	loadedAt time.Time
}

// NewHandle returns an Unloaded handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Load opens source with l and makes it current. On failure the previous
// state is kept.
func (h *Handle) Load(ctx context.Context, l Loader, source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return fmt.Errorf("%w: %w", ErrLoad, ErrNoSource)
	}
	rt, err := l.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, source, err)
	}
	if rt == nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, source, ErrNilRuntime)
	}
	h.Set(rt, source)
	return nil
}

// Set installs rt as the current runtime.
func (h *Handle) Set(rt Runtime, source string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rt = rt
	h.source = source
	h.loadedAt = time.Now()
}

// Unload returns the handle to the Unloaded state.
func (h *Handle) Unload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rt = nil
	h.source = ""
	h.loadedAt = time.Time{}
}

// Current returns the loaded runtime or ErrUnloaded.
func (h *Handle) Current() (Runtime, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.rt == nil {
		return nil, ErrUnloaded
	}
	return h.rt, nil
}

// Status reports the handle state.
func (h *Handle) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.rt == nil {
		return Status{State: Unloaded}
	}
	at := h.loadedAt
	return Status{
		State:    Loaded,
		Loaded:   true,
		Source:   h.source,
		Kind:     h.rt.Kind(),
		LoadedAt: &at,
	}
}

package market

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/afrimarkets/dashboard/internal/model"
)

// State is the synchronizer's position in Idle → Loading → {Live, Demo}.
type State int32

const (
	StateIdle State = iota
	StateLoading
	StateLive
	StateDemo
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLive:
		return "live"
	case StateDemo:
		return "demo"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ChangeKind says what a Change carries.
type ChangeKind string

const (
	ChangeSnapshot     ChangeKind = "snapshot"
	ChangeConnectivity ChangeKind = "connectivity"
)

// Change is emitted whenever the snapshot is replaced or connectivity is
// recorded.
type Change struct {
	Kind         ChangeKind                `json:"type"`
	State        State                     `json:"state"`
	Snapshot     *model.Snapshot           `json:"snapshot,omitempty"`
	Connectivity *model.ConnectivityStatus `json:"connectivity,omitempty"`
	At           time.Time                 `json:"at"`
}

// syncState holds the synchronizer's shared state.
type syncState struct {
	// Current snapshot, replaced wholesale.
	snapshot atomic.Pointer[model.Snapshot]

	mu           sync.RWMutex
	phase        State
	connectivity model.ConnectivityStatus
	handlers     []SnapshotHandler

	// Output channel for stream and other observers.
	changes chan Change
}

func newState() *syncState {
	return &syncState{
		phase: StateIdle,
		connectivity: model.ConnectivityStatus{
			Message: "Connectivity not checked yet",
		},
		changes: make(chan Change, ChangeBufferSize),
	}
}

// install swaps in a new snapshot and its state in one step and returns the
// handlers to notify.
func (s *syncState) install(snap *model.Snapshot, phase State) []SnapshotHandler {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Store(snap)
	s.phase = phase
	return slices.Clone(s.handlers)
}

// beginLoading moves to Loading and returns the state to restore if the load
// is abandoned.
func (s *syncState) beginLoading() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.phase
	s.phase = StateLoading
	return prev
}

// abandonLoading restores prev unless another load already moved on.
func (s *syncState) abandonLoading(prev State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == StateLoading {
		s.phase = prev
	}
}

func (s *syncState) getPhase() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *syncState) getConnectivity() model.ConnectivityStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectivity
}

// setConnectivity stores status and reports whether Connected flipped.
func (s *syncState) setConnectivity(status model.ConnectivityStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.connectivity.Connected != status.Connected
	s.connectivity = status
	return changed
}

// notifyChange sends a change to the changes channel (non-blocking).
func (s *syncState) notifyChange(change Change) {
	select {
	case s.changes <- change:
	default:
		// Channel full, drop oldest by consuming one and retrying.
		select {
		case <-s.changes:
		default:
		}
		select {
		case s.changes <- change:
		default:
		}
	}
}

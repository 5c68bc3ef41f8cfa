// Package ridesim models the passenger-side ride lifecycle: a ride runs
// from request to completion on a wall-clock timer, advancing a bounded
// progress percentage. It calls no dispatch or driver-tracking backend.
package ridesim

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Status represents the lifecycle position of a ride session.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// EventType classifies simulator notifications.
type EventType string

const (
	EventProgress  EventType = "PROGRESS"
	EventCompleted EventType = "COMPLETED"
	EventCancelled EventType = "CANCELLED"
	EventReset     EventType = "RESET"
)

var (
	// ErrMissingPickup is returned when the pickup address is empty or whitespace.
	ErrMissingPickup = errors.New("pickup address is required")

	// ErrMissingDropoff is returned when the dropoff address is empty or whitespace.
	ErrMissingDropoff = errors.New("dropoff address is required")
)

// Config controls the advance cadence of the simulator. A single pair of
// constants drives every session.
type Config struct {
	StepPercent  int
	TickInterval time.Duration
	SettleDelay  time.Duration
}

// DefaultConfig returns the production cadence: 2% per second, with a 3
// second settle before the session returns to idle.
func DefaultConfig() Config {
	return Config{
		StepPercent:  2,
		TickInterval: time.Second,
		SettleDelay:  3 * time.Second,
	}
}

// Info describes the ride being simulated.
type Info struct {
	Pickup      string
	Dropoff     string
	VehicleType string
	DriverName  string
	ETAMinutes  int
}

// Snapshot is a point-in-time copy of the session state, safe to hand to
// subscribers and HTTP responses.
type Snapshot struct {
	Status      Status
	Progress    int
	Info        Info
	StartedAt   time.Time
	CompletedAt time.Time
}

// Event is delivered to the notify callback on every state change.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// CanRequest reports whether a ride may be requested for the given
// addresses. Callers use it to gate the request action before Start.
func CanRequest(pickup, dropoff string) bool {
	return strings.TrimSpace(pickup) != "" && strings.TrimSpace(dropoff) != ""
}

// Simulator owns at most one live ride session. Starting a new ride while
// one is active cancels the prior timer first, so progress never
// double-advances. All methods are safe for concurrent use.
type Simulator struct {
	cfg    Config
	notify func(Event)

	mu          sync.Mutex
	status      Status
	progress    int
	info        Info
	startedAt   time.Time
	completedAt time.Time
	epoch       uint64 // bumped on Start/Cancel to invalidate stale timers
}

// New creates a simulator. notify may be nil; when set it is invoked
// outside the internal lock, once per state change, in order.
func New(cfg Config, notify func(Event)) *Simulator {
	if cfg.StepPercent <= 0 {
		cfg.StepPercent = DefaultConfig().StepPercent
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = DefaultConfig().SettleDelay
	}
	if notify == nil {
		notify = func(Event) {}
	}
	return &Simulator{
		cfg:    cfg,
		notify: notify,
		status: StatusIdle,
	}
}

// Start begins a ride session at progress 0 and ticks it toward 100.
// Pickup and dropoff must be non-empty after trimming.
func (s *Simulator) Start(info Info) error {
	if strings.TrimSpace(info.Pickup) == "" {
		return ErrMissingPickup
	}
	if strings.TrimSpace(info.Dropoff) == "" {
		return ErrMissingDropoff
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.status = StatusInProgress
	s.progress = 0
	s.info = info
	s.startedAt = time.Now()
	s.completedAt = time.Time{}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Event{Type: EventProgress, Snapshot: snap})

	go s.run(epoch)
	return nil
}

// Cancel stops the active session, if any, and resets to idle without
// emitting a completion event. Cancelling an idle simulator is a no-op.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	if s.status == StatusIdle {
		s.mu.Unlock()
		return
	}
	s.epoch++
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Event{Type: EventCancelled, Snapshot: snap})
}

// Snapshot returns a copy of the current session state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// run advances progress until completion or until the epoch is superseded
// by a newer Start or a Cancel.
func (s *Simulator) run(epoch uint64) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		if s.epoch != epoch || s.status != StatusInProgress {
			s.mu.Unlock()
			return
		}

		s.progress += s.cfg.StepPercent
		if s.progress >= 100 {
			s.progress = 100
			s.status = StatusCompleted
			s.completedAt = time.Now()
			snap := s.snapshotLocked()
			s.mu.Unlock()

			s.notify(Event{Type: EventCompleted, Snapshot: snap})
			s.scheduleSettle(epoch)
			return
		}

		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.notify(Event{Type: EventProgress, Snapshot: snap})
	}
}

// scheduleSettle returns the session to idle after the settle delay,
// unless a newer session took over in the meantime.
func (s *Simulator) scheduleSettle(epoch uint64) {
	time.AfterFunc(s.cfg.SettleDelay, func() {
		s.mu.Lock()
		if s.epoch != epoch || s.status != StatusCompleted {
			s.mu.Unlock()
			return
		}
		s.resetLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.notify(Event{Type: EventReset, Snapshot: snap})
	})
}

func (s *Simulator) resetLocked() {
	s.status = StatusIdle
	s.progress = 0
	s.info = Info{}
	s.startedAt = time.Time{}
	s.completedAt = time.Time{}
}

func (s *Simulator) snapshotLocked() Snapshot {
	return Snapshot{
		Status:      s.status,
		Progress:    s.progress,
		Info:        s.info,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}
}

package ridesim

import (
	"sync"
	"testing"
	"time"
)

// fastConfig keeps test runs short: 4 ticks to completion.
func fastConfig() Config {
	return Config{
		StepPercent:  25,
		TickInterval: 5 * time.Millisecond,
		SettleDelay:  10 * time.Millisecond,
	}
}

// recorder collects simulator events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) waitFor(t *testing.T, typ EventType, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, e := range r.snapshot() {
			if e.Type == typ {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("event %s not observed within %v", typ, timeout)
}

func TestStart_RequiresPickupAndDropoff(t *testing.T) {
	sim := New(fastConfig(), nil)

	testCases := []struct {
		name    string
		info    Info
		wantErr error
	}{
		{"empty pickup", Info{Pickup: "", Dropoff: "Piazza"}, ErrMissingPickup},
		{"whitespace pickup", Info{Pickup: "   ", Dropoff: "Piazza"}, ErrMissingPickup},
		{"empty dropoff", Info{Pickup: "Bole", Dropoff: ""}, ErrMissingDropoff},
		{"whitespace dropoff", Info{Pickup: "Bole", Dropoff: "\t"}, ErrMissingDropoff},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := sim.Start(tc.info); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if got := sim.Snapshot().Status; got != StatusIdle {
				t.Errorf("simulator must stay idle, got %s", got)
			}
		})
	}
}

func TestCanRequest(t *testing.T) {
	if CanRequest("", "Piazza") || CanRequest("Bole", "  ") {
		t.Error("CanRequest must reject empty or whitespace addresses")
	}
	if !CanRequest("Bole", "Piazza") {
		t.Error("CanRequest must accept non-empty addresses")
	}
}

func TestProgress_MonotoneAndCompletesAtExactly100(t *testing.T) {
	rec := &recorder{}
	sim := New(fastConfig(), rec.record)

	err := sim.Start(Info{Pickup: "Bole", Dropoff: "Piazza", VehicleType: "mini"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.waitFor(t, EventCompleted, time.Second)

	prev := -1
	completed := 0
	for _, e := range rec.snapshot() {
		switch e.Type {
		case EventProgress, EventCompleted:
			if e.Snapshot.Progress < prev {
				t.Errorf("progress decreased: %d after %d", e.Snapshot.Progress, prev)
			}
			if e.Snapshot.Progress > 100 {
				t.Errorf("progress exceeded 100: %d", e.Snapshot.Progress)
			}
			prev = e.Snapshot.Progress
		}
		if e.Type == EventCompleted {
			completed++
			if e.Snapshot.Progress != 100 {
				t.Errorf("completed at progress %d, want 100", e.Snapshot.Progress)
			}
			if e.Snapshot.Status != StatusCompleted {
				t.Errorf("completed event with status %s", e.Snapshot.Status)
			}
		}
	}
	if completed != 1 {
		t.Errorf("completion event fired %d times, want exactly 1", completed)
	}
}

func TestCompletion_ResetsToIdleAfterSettle(t *testing.T) {
	rec := &recorder{}
	sim := New(fastConfig(), rec.record)

	if err := sim.Start(Info{Pickup: "Bole", Dropoff: "Piazza"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.waitFor(t, EventReset, time.Second)

	snap := sim.Snapshot()
	if snap.Status != StatusIdle {
		t.Errorf("expected Idle after settle, got %s", snap.Status)
	}
	if snap.Progress != 0 {
		t.Errorf("expected progress 0 after settle, got %d", snap.Progress)
	}
	if snap.Info != (Info{}) {
		t.Errorf("expected ride data cleared, got %+v", snap.Info)
	}
}

func TestStart_BeginsAtZeroProgress(t *testing.T) {
	rec := &recorder{}
	sim := New(Config{StepPercent: 25, TickInterval: time.Minute, SettleDelay: time.Minute}, rec.record)

	if err := sim.Start(Info{Pickup: "Bole", Dropoff: "Piazza"}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sim.Cancel()

	snap := sim.Snapshot()
	if snap.Status != StatusInProgress || snap.Progress != 0 {
		t.Errorf("expected InProgress at progress 0, got %s at %d", snap.Status, snap.Progress)
	}
}

func TestCancel_ResetsWithoutCompletionEvent(t *testing.T) {
	rec := &recorder{}
	sim := New(fastConfig(), rec.record)

	if err := sim.Start(Info{Pickup: "Bole", Dropoff: "Piazza"}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sim.Cancel()

	snap := sim.Snapshot()
	if snap.Status != StatusIdle || snap.Progress != 0 {
		t.Errorf("expected idle at 0 after cancel, got %s at %d", snap.Status, snap.Progress)
	}

	// Let any stale timer fire. No completion may follow a cancel.
	time.Sleep(50 * time.Millisecond)
	for _, e := range rec.snapshot() {
		if e.Type == EventCompleted {
			t.Error("completion event emitted after cancel")
		}
	}
}

func TestCancel_Idle_IsNoOp(t *testing.T) {
	rec := &recorder{}
	sim := New(fastConfig(), rec.record)
	sim.Cancel()
	if len(rec.snapshot()) != 0 {
		t.Error("cancel of idle simulator emitted events")
	}
}

func TestStart_WhileActiveCancelsPriorTimer(t *testing.T) {
	rec := &recorder{}
	sim := New(fastConfig(), rec.record)

	if err := sim.Start(Info{Pickup: "Bole", Dropoff: "Piazza"}); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := sim.Start(Info{Pickup: "Kazanchis", Dropoff: "Mexico", VehicleType: "sedan"}); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	rec.waitFor(t, EventCompleted, time.Second)

	// Exactly one completion, belonging to the second ride.
	completed := 0
	for _, e := range rec.snapshot() {
		if e.Type == EventCompleted {
			completed++
			if e.Snapshot.Info.Pickup != "Kazanchis" {
				t.Errorf("completion for stale ride %q", e.Snapshot.Info.Pickup)
			}
		}
	}
	if completed != 1 {
		t.Errorf("completion fired %d times, want 1", completed)
	}
}

func TestEndToEnd_BoleToPiazza(t *testing.T) {
	rec := &recorder{}
	sim := New(fastConfig(), rec.record)

	err := sim.Start(Info{Pickup: "Bole", Dropoff: "Piazza", VehicleType: "mini", DriverName: "Abebe", ETAMinutes: 4})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.waitFor(t, EventCompleted, time.Second)
	rec.waitFor(t, EventReset, time.Second)

	events := rec.snapshot()
	completedIdx, resetIdx := -1, -1
	for i, e := range events {
		if e.Type == EventCompleted && completedIdx == -1 {
			completedIdx = i
		}
		if e.Type == EventReset && resetIdx == -1 {
			resetIdx = i
		}
	}
	if completedIdx == -1 || resetIdx == -1 || resetIdx < completedIdx {
		t.Fatalf("expected Completed then Reset, got completed=%d reset=%d", completedIdx, resetIdx)
	}
	if got := events[completedIdx].Snapshot.Info.VehicleType; got != "mini" {
		t.Errorf("vehicle type %q, want mini", got)
	}
	if sim.Snapshot().Status != StatusIdle {
		t.Errorf("expected final status Idle, got %s", sim.Snapshot().Status)
	}
}

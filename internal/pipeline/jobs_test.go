package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/rpatel9/examforge/internal/quiz"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "extracting text"},
		{StatusParsing, "locating questions"},
		{StatusStoring, "storing paper"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("extract: bad header")
	job.AddError("store: conflict")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "extract: bad header" {
		t.Errorf("expected first error %q, got %q", "extract: bad header", snap.Progress.Errors[0])
	}
}

func TestJob_SetCapture(t *testing.T) {
	job := &Job{ID: "capture-test", UpdatedAt: time.Now()}
	warnings := []quiz.Warning{{ID: 5, Kind: quiz.WarnPaddedOptions}}
	job.SetCapture(42, 100, []int{7, 9}, warnings)

	snap := job.Snapshot()
	if snap.Progress.QuestionsFound != 42 {
		t.Errorf("expected 42 questions found, got %d", snap.Progress.QuestionsFound)
	}
	if snap.Progress.ExpectedMax != 100 {
		t.Errorf("expected max 100, got %d", snap.Progress.ExpectedMax)
	}
	if len(snap.Progress.MissingIDs) != 2 || snap.Progress.MissingIDs[0] != 7 {
		t.Errorf("unexpected missing ids: %v", snap.Progress.MissingIDs)
	}
	if len(snap.Progress.Warnings) != 1 || snap.Progress.Warnings[0].ID != 5 {
		t.Errorf("unexpected warnings: %v", snap.Progress.Warnings)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotSlicesNotNil(t *testing.T) {
	// Snapshot should always return non-nil slices so JSON encodes
	// [] rather than null.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.Progress.MissingIDs == nil {
		t.Error("expected non-nil missing ids slice in snapshot")
	}
	if snap.Progress.Warnings == nil {
		t.Error("expected non-nil warnings slice in snapshot")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestNewJobID_Format(t *testing.T) {
	id := NewJobID()
	if len(id) != 26 {
		t.Fatalf("expected 26-char id, got %d (%q)", len(id), id)
	}
	for _, r := range id {
		if !strings.ContainsRune(crockford, r) {
			t.Errorf("unexpected character %q in id %q", r, id)
		}
	}
}

func TestNewJobID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewJobID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNewJobID_Ordered(t *testing.T) {
	a := NewJobID()
	time.Sleep(2 * time.Millisecond)
	b := NewJobID()
	if !(a < b) {
		t.Errorf("expected %q < %q", a, b)
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below 1s", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
}

func TestOpStats_RecordAndSnapshot(t *testing.T) {
	var s OpStats
	s.Record(10*time.Millisecond, nil)
	s.Record(30*time.Millisecond, nil)

	snap := s.Snapshot()
	if snap.Calls != 2 {
		t.Errorf("expected 2 calls, got %d", snap.Calls)
	}
	if snap.Failures != 0 {
		t.Errorf("expected 0 failures, got %d", snap.Failures)
	}
	if snap.AvgMillis != 20 {
		t.Errorf("expected avg 20ms, got %v", snap.AvgMillis)
	}
}

func TestPipelineStats_SnapshotPhases(t *testing.T) {
	var p PipelineStats
	p.Parse.Record(time.Millisecond, nil)
	snap := p.Snapshot()
	for _, phase := range []string{"extract", "parse", "store"} {
		if _, ok := snap[phase]; !ok {
			t.Errorf("missing phase %q in snapshot", phase)
		}
	}
	if snap["parse"].Calls != 1 {
		t.Errorf("expected 1 parse call, got %d", snap["parse"].Calls)
	}
}

package bptelemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeRecorder captures calls the way diskbtree_test.go's fake captures
// structural events, for tests that only
// care whether a call happened rather than its Prometheus wiring.
type fakeRecorder struct {
	splits  []string
	merges  []string
	borrows []string
	faults  int
	flushes []int
}

func (f *fakeRecorder) RecordSplit(kind string)   { f.splits = append(f.splits, kind) }
func (f *fakeRecorder) RecordMerge(kind string)   { f.merges = append(f.merges, kind) }
func (f *fakeRecorder) RecordBorrow(kind string)  { f.borrows = append(f.borrows, kind) }
func (f *fakeRecorder) RecordFault()              { f.faults++ }
func (f *fakeRecorder) RecordFlush(n int)         { f.flushes = append(f.flushes, n) }

func TestNoopDiscardsEvents(t *testing.T) {
	// Noop must be safe to call without panicking or observable effect.
	Noop.RecordSplit("leaf")
	Noop.RecordMerge("internal")
	Noop.RecordBorrow("leaf")
	Noop.RecordFault()
	Noop.RecordFlush(3)
}

func TestFakeRecorderCapturesEvents(t *testing.T) {
	f := &fakeRecorder{}
	var r Recorder = f
	r.RecordSplit("leaf")
	r.RecordSplit("internal")
	r.RecordMerge("leaf")
	r.RecordBorrow("internal")
	r.RecordFault()
	r.RecordFlush(5)

	if len(f.splits) != 2 || f.splits[0] != "leaf" || f.splits[1] != "internal" {
		t.Fatalf("unexpected splits: %v", f.splits)
	}
	if len(f.merges) != 1 || f.merges[0] != "leaf" {
		t.Fatalf("unexpected merges: %v", f.merges)
	}
	if len(f.borrows) != 1 || f.borrows[0] != "internal" {
		t.Fatalf("unexpected borrows: %v", f.borrows)
	}
	if f.faults != 1 {
		t.Fatalf("expected 1 fault, got %d", f.faults)
	}
	if len(f.flushes) != 1 || f.flushes[0] != 5 {
		t.Fatalf("unexpected flushes: %v", f.flushes)
	}
}

func TestPrometheusRecorderIncrementsCounters(t *testing.T) {
	r := NewPrometheusRecorder("bptelemetry_test")

	r.RecordSplit("leaf")
	r.RecordSplit("leaf")
	r.RecordMerge("internal")
	r.RecordBorrow("leaf")
	r.RecordFault()
	r.RecordFault()
	r.RecordFault()
	r.RecordFlush(7)

	if got := testutil.ToFloat64(r.splits.WithLabelValues("leaf")); got != 2 {
		t.Fatalf("expected 2 leaf splits, got %v", got)
	}
	if got := testutil.ToFloat64(r.merges.WithLabelValues("internal")); got != 1 {
		t.Fatalf("expected 1 internal merge, got %v", got)
	}
	if got := testutil.ToFloat64(r.borrows.WithLabelValues("leaf")); got != 1 {
		t.Fatalf("expected 1 leaf borrow, got %v", got)
	}
	if got := testutil.ToFloat64(r.faults); got != 3 {
		t.Fatalf("expected 3 faults, got %v", got)
	}
	if got := testutil.ToFloat64(r.flushes); got != 1 {
		t.Fatalf("expected 1 flush call, got %v", got)
	}
	if got := testutil.ToFloat64(r.flushed); got != 7 {
		t.Fatalf("expected 7 nodes flushed, got %v", got)
	}
}

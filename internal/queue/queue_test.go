package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/hoitkn/processqa/internal/submission"
)

func testQueue(t *testing.T, opts Options) *Queue {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	q, err := New(db, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func sub(n int) submission.Submission {
	return submission.Submission{
		submission.FieldSite:         "MMB",
		submission.FieldEmployeeCode: "15MB00270",
		submission.FieldLine:         "L6",
		submission.FieldProcessCode:  fmt.Sprintf("99PH%05d", n),
	}
}

func TestEnqueue_StampsEntry(t *testing.T) {
	q := testQueue(t, Options{})

	entry, err := q.Enqueue(sub(1))
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if entry.Synced {
		t.Error("new entry Synced = true, want false")
	}
	if entry.EnqueuedAt.IsZero() {
		t.Error("new entry EnqueuedAt is zero")
	}

	n, err := q.Len()
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestEnqueue_Bound(t *testing.T) {
	q := testQueue(t, Options{MaxRecords: 50})

	for i := 0; i < 60; i++ {
		if _, err := q.Enqueue(sub(i)); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", i, err)
		}
	}

	entries, err := q.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("queue holds %d entries, want the 50 most recent", len(entries))
	}
	// Entries 0..9 were dropped from the front; order is preserved.
	if got := entries[0].Fields.Get(submission.FieldProcessCode); got != "99PH00010" {
		t.Errorf("oldest surviving entry = %q, want 99PH00010", got)
	}
	if got := entries[49].Fields.Get(submission.FieldProcessCode); got != "99PH00059" {
		t.Errorf("newest entry = %q, want 99PH00059", got)
	}
}

func TestEnqueue_BlockWhenFull(t *testing.T) {
	q := testQueue(t, Options{MaxRecords: 2, BlockWhenFull: true})

	for i := 0; i < 2; i++ {
		if _, err := q.Enqueue(sub(i)); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", i, err)
		}
	}
	if _, err := q.Enqueue(sub(2)); !errors.Is(err, ErrFull) {
		t.Errorf("Enqueue() past cap error = %v, want ErrFull", err)
	}

	entries, _ := q.Entries()
	if len(entries) != 2 {
		t.Errorf("queue holds %d entries, want 2 (nothing dropped)", len(entries))
	}
	if got := entries[0].Fields.Get(submission.FieldProcessCode); got != "99PH00000" {
		t.Errorf("oldest entry = %q, want 99PH00000 (still present)", got)
	}
}

func TestDrain_StopsAtFirstFailure(t *testing.T) {
	q := testQueue(t, Options{})
	for i := 0; i < 3; i++ {
		if _, err := q.Enqueue(sub(i)); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", i, err)
		}
	}

	sendErr := errors.New("remote unreachable")
	var sent []string
	res, err := q.Drain(context.Background(), func(ctx context.Context, e Entry) error {
		code := e.Fields.Get(submission.FieldProcessCode)
		if code == "99PH00001" {
			return sendErr
		}
		sent = append(sent, code)
		return nil
	})

	if !errors.Is(err, sendErr) {
		t.Fatalf("Drain() error = %v, want the send failure", err)
	}
	if res.Sent != 1 || res.Remaining != 2 {
		t.Errorf("DrainResult = %+v, want Sent=1 Remaining=2", res)
	}
	if len(sent) != 1 || sent[0] != "99PH00000" {
		t.Errorf("delivered = %v, want only the first entry", sent)
	}

	entries, _ := q.Entries()
	if len(entries) != 2 {
		t.Fatalf("queue holds %d entries after failed drain, want 2", len(entries))
	}
	if got := entries[0].Fields.Get(submission.FieldProcessCode); got != "99PH00001" {
		t.Errorf("entries[0] = %q, want 99PH00001 (original order preserved)", got)
	}
	if got := entries[1].Fields.Get(submission.FieldProcessCode); got != "99PH00002" {
		t.Errorf("entries[1] = %q, want 99PH00002", got)
	}
}

func TestDrain_AllDelivered(t *testing.T) {
	q := testQueue(t, Options{})
	for i := 0; i < 3; i++ {
		if _, err := q.Enqueue(sub(i)); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", i, err)
		}
	}

	res, err := q.Drain(context.Background(), func(ctx context.Context, e Entry) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if res.Sent != 3 || res.Remaining != 0 {
		t.Errorf("DrainResult = %+v, want Sent=3 Remaining=0", res)
	}

	n, _ := q.Len()
	if n != 0 {
		t.Errorf("Len() after full drain = %d, want 0", n)
	}
}

func TestDrain_EmptyQueue(t *testing.T) {
	q := testQueue(t, Options{})
	res, err := q.Drain(context.Background(), func(ctx context.Context, e Entry) error {
		t.Error("send called on empty queue")
		return nil
	})
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if res.Sent != 0 {
		t.Errorf("DrainResult.Sent = %d, want 0", res.Sent)
	}
}

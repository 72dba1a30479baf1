// Package queue durably stores canonical submissions that could not be
// delivered, so an offline device never silently loses a record. Entries
// live in a local badger store under monotonic sequence keys and are
// drained strictly in enqueue order once connectivity returns.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/hoitkn/processqa/internal/submission"
)

const (
	entryKeyPrefix = "sub:"
	seqKey         = "queue-seq"
	seqBandwidth   = 64
)

// ErrFull is returned by Enqueue when the queue is at capacity and the
// block-when-full policy is active.
var ErrFull = errors.New("submission queue is full")

// Entry is one queued submission awaiting delivery.
type Entry struct {
	Seq        uint64                `json:"seq"`
	Fields     submission.Submission `json:"fields"`
	EnqueuedAt time.Time             `json:"enqueuedAt"`
	Synced     bool                  `json:"synced"`
}

// Options bounds the queue. MaxRecords caps how many unsynced entries are
// kept; by default the oldest entries are dropped past the cap, matching the
// deployed behavior. BlockWhenFull switches to rejecting new submissions
// instead, for sites where silent loss is unacceptable.
type Options struct {
	MaxRecords    int
	BlockWhenFull bool
}

// DefaultMaxRecords matches the deployment's offline cap.
const DefaultMaxRecords = 50

// Queue is the durable FIFO submission queue. Append and remove are
// serialized by a single mutex; expected load never needs more.
type Queue struct {
	mu   sync.Mutex
	db   *badger.DB
	seq  *badger.Sequence
	opts Options
}

// Open opens (or creates) the durable store at path. An empty store on first
// run is normal.
func Open(path string, opts Options) (*Queue, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open queue store: %w", err)
	}
	return New(db, opts)
}

// New wraps an already-open badger store. Tests use this with an in-memory
// store.
func New(db *badger.DB, opts Options) (*Queue, error) {
	if opts.MaxRecords <= 0 {
		opts.MaxRecords = DefaultMaxRecords
	}
	seq, err := db.GetSequence([]byte(seqKey), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("queue sequence: %w", err)
	}
	return &Queue{db: db, seq: seq, opts: opts}, nil
}

// Close releases the sequence and closes the store.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.seq.Release(); err != nil {
		return err
	}
	return q.db.Close()
}

// Enqueue appends a submission with a client-clock timestamp and
// synced=false. Past the configured maximum the oldest entries are dropped
// (or, with BlockWhenFull, ErrFull is returned and nothing is stored).
func (q *Queue) Enqueue(sub submission.Submission) (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.opts.BlockWhenFull {
		n, err := q.lenLocked()
		if err != nil {
			return Entry{}, err
		}
		if n >= q.opts.MaxRecords {
			return Entry{}, ErrFull
		}
	}

	seq, err := q.seq.Next()
	if err != nil {
		return Entry{}, fmt.Errorf("queue sequence: %w", err)
	}
	entry := Entry{
		Seq:        seq,
		Fields:     sub.Clone(),
		EnqueuedAt: time.Now(),
		Synced:     false,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal entry: %w", err)
	}

	err = q.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(seq), data)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("store entry: %w", err)
	}

	if err := q.evictOldestLocked(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Entries returns the queued submissions in FIFO order.
func (q *Queue) Entries() ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entriesLocked()
}

// Len reports how many submissions are waiting.
func (q *Queue) Len() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// SendFunc delivers one queued entry to the remote store.
type SendFunc func(ctx context.Context, entry Entry) error

// DrainResult reports one drain pass.
type DrainResult struct {
	Sent      int
	Remaining int
}

// Drain walks the queue in FIFO order, calling send for each entry. A
// delivered entry is removed immediately, so a crash mid-drain re-sends at
// most the in-flight entry (at-least-once). The first failure stops the
// pass with every later entry untouched, preserving submission order on the
// remote side; the failure is returned alongside the partial result.
func (q *Queue) Drain(ctx context.Context, send SendFunc) (DrainResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.entriesLocked()
	if err != nil {
		return DrainResult{}, err
	}

	var res DrainResult
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			res.Remaining = len(entries) - i
			return res, err
		}
		if err := send(ctx, entry); err != nil {
			res.Remaining = len(entries) - i
			return res, err
		}
		if err := q.deleteLocked(entry.Seq); err != nil {
			res.Remaining = len(entries) - i
			return res, err
		}
		res.Sent++
	}
	return res, nil
}

func (q *Queue) entriesLocked() ([]Entry, error) {
	var entries []Entry
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var entry Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("decode entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (q *Queue) lenLocked() (int, error) {
	n := 0
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// evictOldestLocked drops entries from the front until the queue is back
// within bound.
func (q *Queue) evictOldestLocked() error {
	n, err := q.lenLocked()
	if err != nil {
		return err
	}
	for n > q.opts.MaxRecords {
		var oldest []byte
		err := q.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(entryKeyPrefix)
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			defer it.Close()
			it.Rewind()
			if it.Valid() {
				oldest = it.Item().KeyCopy(nil)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if oldest == nil {
			return nil
		}
		err = q.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(oldest)
		})
		if err != nil {
			return fmt.Errorf("evict oldest: %w", err)
		}
		n--
	}
	return nil
}

func (q *Queue) deleteLocked(seq uint64) error {
	return q.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(seq))
	})
}

// entryKey builds a zero-padded key so badger's lexicographic iteration
// order is the enqueue order.
func entryKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", entryKeyPrefix, seq))
}

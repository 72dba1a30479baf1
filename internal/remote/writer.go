// Package remote implements the Remote Writer capability against the two
// deployed stores: the Microsoft Graph list service and the MySQL API's
// Processmi table. Both writers accept canonical submissions and apply
// their own schema mapping; the sync engine never sees external columns.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/hoitkn/processqa/internal/submission"
)

// Writer delivers canonical submissions to a remote store. Submit returns
// the remote identifier of the created record. Failures are classified: a
// *ConnectivityError is retryable and queues the submission, anything else
// is terminal and surfaces to the caller.
type Writer interface {
	Submit(ctx context.Context, sub submission.Submission) (string, error)
	FetchRecent(ctx context.Context, limit int) ([]Record, error)
}

// Record is one remote record in external-schema shape.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// RecentFilter narrows a recent-records read. Dates bound the production
// date column and use the store's YYYY-MM-DD format. Zero values mean no
// bound; a zero Limit falls back to the writer default.
type RecentFilter struct {
	Site     string
	DateFrom string
	DateTo   string
	Limit    int
}

// RecentFilterer is implemented by writers whose backing store supports
// filtered recent-record reads. Callers discover it by type assertion.
type RecentFilterer interface {
	FetchRecentFiltered(ctx context.Context, f RecentFilter) ([]Record, error)
}

// TokenSource is the identity-provider contract. Its failures surface as
// "not authenticated", never as a crash of the data layer.
type TokenSource interface {
	IsAuthenticated() bool
	AuthHeader() string
}

// ErrNotAuthenticated is returned when the identity provider holds no
// usable credential. It is terminal for the attempt and never queued.
var ErrNotAuthenticated = errors.New("not authenticated")

// StaticTokenSource serves a fixed bearer token, typically injected via the
// environment for service deployments. An empty token means unauthenticated.
type StaticTokenSource struct {
	Token string
}

func (s StaticTokenSource) IsAuthenticated() bool { return s.Token != "" }

func (s StaticTokenSource) AuthHeader() string { return "Bearer " + s.Token }

// ConnectivityError marks a failure to reach the remote store at all:
// the submission should be queued and retried later.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("remote unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// RejectionError marks a reachable remote that refused the payload
// (validation, authorization, schema mismatch). Retrying an invalid payload
// will not help, so it is never queued.
type RejectionError struct {
	Status int
	Msg    string
}

func (e *RejectionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote rejected submission (status %d): %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("remote rejected submission: %s", e.Msg)
}

// IsConnectivity reports whether err is a retryable connectivity failure.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

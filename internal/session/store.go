// Package session keeps per-player game snapshots between requests.
package session

import "context"

// Store persists values by session id. Implementations must be safe for
// concurrent use.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	NewID() string
}

// Package store provides the durable key-value layer the rest of the system
// persists through. Every value is a full JSON-serialized collection; writes
// are unconditional, so the last full-collection write for a key wins.
package store

import "context"

// Store maps named keys to opaque values. A missing key is reported via
// found=false, not an error; backends reserve errors for infrastructure
// failures so callers can degrade to "absent" deliberately.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Package ledger records digests so that sources can be verified later.
//
// An Entry pins the digest, size and seed of a named source. Stores persist
// entries: FileStore keeps them in a single local file written atomically,
// and the dynamodb subpackage keeps them in a DynamoDB table.
//
//	store, err := ledger.OpenFile("sums.ledger")
//	err = store.Put(ctx, ledger.Entry{Name: "disk.img", Digest: d, Size: n, Seed: seahash.DefaultSeed})
//	...
//	err = ledger.Verify(ctx, store, "disk.img", d2) // *MismatchError if d2 differs
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/seahash"
)

var (
	// ErrNotFound is returned when no entry exists for a name.
	ErrNotFound = errors.New("ledger: entry not found")

	// ErrConflict is returned by PutIfAbsent when an entry already exists.
	ErrConflict = errors.New("ledger: entry already exists")

	// ErrInvalidEntry is returned for entries without a name.
	ErrInvalidEntry = errors.New("ledger: invalid entry")
)

// Entry is a recorded digest.
type Entry struct {
	Name       string         `json:"name"`
	Digest     seahash.Digest `json:"digest"`
	Size       int64          `json:"size"`
	Seed       seahash.Seed   `json:"seed"`
	RecordedAt time.Time      `json:"recorded_at"`
}

func (e Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidEntry)
	}
	if e.Size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidEntry, e.Size)
	}
	return nil
}

// Store persists entries by name.
type Store interface {
	// Put records e, replacing any entry with the same name.
	Put(ctx context.Context, e Entry) error
	// PutIfAbsent records e unless an entry with the same name exists,
	// in which case it returns ErrConflict.
	PutIfAbsent(ctx context.Context, e Entry) error
	// Get returns the entry for name or ErrNotFound.
	Get(ctx context.Context, name string) (Entry, error)
	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Entry, error)
}

// MismatchError reports a digest that differs from the recorded one.
type MismatchError struct {
	Name string
	Want seahash.Digest
	Got  seahash.Digest
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("ledger: %s: digest mismatch: recorded %s, computed %s", e.Name, e.Want, e.Got)
}

// Verify compares got with the digest recorded for name.
func Verify(ctx context.Context, store Store, name string, got seahash.Digest) error {
	e, err := store.Get(ctx, name)
	if err != nil {
		return err
	}
	if e.Digest != got {
		return &MismatchError{Name: name, Want: e.Digest, Got: got}
	}
	return nil
}

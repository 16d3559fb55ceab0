package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"
)

const (
	PrefixBooking     = "booking:"
	PrefixReminder    = "reminder:"
	PrefixVehicle     = "vehicle:"
	PrefixTransaction = "transaction:"
	PrefixExpense     = "expense:"
	PrefixDriver      = "driver:"
	PrefixCustomer    = "customer:"
	PrefixAssignment  = "assignment:"
)

// casAttempts bounds read-modify-write loops that lose a compare-and-set race
// to an unrelated write.
const casAttempts = 5

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// collection stores JSON documents of type T under a key prefix.
type collection[T any] struct {
	store    store.Store
	prefix   string
	name     string
	notFound error
}

func newCollection[T any](s store.Store, prefix, name string, notFound error) *collection[T] {
	if notFound == nil {
		notFound = store.ErrNotFound
	}
	return &collection[T]{store: s, prefix: prefix, name: name, notFound: notFound}
}

func (c *collection[T]) key(id string) string {
	return c.prefix + id
}

// load returns the decoded document together with its stored bytes, which
// callers hand back to swap.
func (c *collection[T]) load(ctx context.Context, id string) (*T, []byte, error) {
	raw, err := c.store.Get(ctx, c.key(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, c.notFound
		}
		return nil, nil, fmt.Errorf("failed to get %s %s: %w", c.name, id, err)
	}

	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s %s: %w", c.name, id, err)
	}
	return &doc, raw, nil
}

func (c *collection[T]) get(ctx context.Context, id string) (*T, error) {
	doc, _, err := c.load(ctx, id)
	return doc, err
}

func (c *collection[T]) all(ctx context.Context) ([]*T, error) {
	values, err := c.store.GetByPrefix(ctx, c.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}

	docs := make([]*T, 0, len(values))
	for _, raw := range values {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

func (c *collection[T]) put(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", c.name, id, err)
	}
	if err := c.store.Set(ctx, c.key(id), raw); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", c.name, id, err)
	}
	return nil
}

func (c *collection[T]) insert(ctx context.Context, id string, doc *T) (bool, error) {
	return c.swap(ctx, id, nil, doc)
}

// swap replaces the stored document only if it still equals expected.
func (c *collection[T]) swap(ctx context.Context, id string, expected []byte, doc *T) (bool, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s %s: %w", c.name, id, err)
	}
	ok, err := c.store.CompareAndSet(ctx, c.key(id), expected, raw)
	if err != nil {
		return false, fmt.Errorf("failed to write %s %s: %w", c.name, id, err)
	}
	return ok, nil
}

func (c *collection[T]) remove(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.key(id)); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.name, id, err)
	}
	return nil
}

func (c *collection[T]) exists(ctx context.Context, id string) (bool, error) {
	_, err := c.store.Get(ctx, c.key(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get %s %s: %w", c.name, id, err)
}

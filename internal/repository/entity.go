package repository

import (
	"context"
	"fmt"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/store"
)

// EntityRepository covers the collections this service only reads in bulk
// and seeds: transactions, expenses, drivers, customers and assignments.
type EntityRepository[T any] interface {
	FindAll(ctx context.Context) ([]*T, error)
	Save(ctx context.Context, entity *T) error
}

type storeEntityRepository[T any] struct {
	docs *collection[T]
	id   func(*T) string
}

func newEntityRepository[T any](s store.Store, prefix, name string, id func(*T) string) EntityRepository[T] {
	return &storeEntityRepository[T]{
		docs: newCollection[T](s, prefix, name, nil),
		id:   id,
	}
}

func (r *storeEntityRepository[T]) FindAll(ctx context.Context) ([]*T, error) {
	return r.docs.all(ctx)
}

func (r *storeEntityRepository[T]) Save(ctx context.Context, entity *T) error {
	id := r.id(entity)
	if id == "" {
		return fmt.Errorf("failed to save %s: missing id", r.docs.name)
	}
	return r.docs.put(ctx, id, entity)
}

func NewTransactionRepository(s store.Store) EntityRepository[model.Transaction] {
	return newEntityRepository(s, PrefixTransaction, "transaction", func(t *model.Transaction) string { return t.ID })
}

func NewExpenseRepository(s store.Store) EntityRepository[model.Expense] {
	return newEntityRepository(s, PrefixExpense, "expense", func(e *model.Expense) string { return e.ID })
}

func NewDriverRepository(s store.Store) EntityRepository[model.Driver] {
	return newEntityRepository(s, PrefixDriver, "driver", func(d *model.Driver) string { return d.ID })
}

func NewCustomerRepository(s store.Store) EntityRepository[model.Customer] {
	return newEntityRepository(s, PrefixCustomer, "customer", func(c *model.Customer) string { return c.ID })
}

func NewAssignmentRepository(s store.Store) EntityRepository[model.Assignment] {
	return newEntityRepository(s, PrefixAssignment, "assignment", func(a *model.Assignment) string { return a.ID })
}

// Package entity separates values that have never been persisted from values that carry a
// store-assigned identity.
//
// A Transient[T] has no id and no timestamps. A Loaded[T] always has all three. Repositories
// accept either through the sealed Entity[T] interface and only ever return Loaded[T].
package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/payments-example/internal/domain/aggregates"
)

// Meta is the identity and timestamps assigned by the store.
type Meta struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

func NewMeta(id uuid.UUID, createdAt, updatedAt time.Time) (Meta, error) {
	const op = "entity.meta"
	switch {
	case id == uuid.Nil:
		return Meta{}, aggregates.Validation(op, "id is required")
	case createdAt.IsZero():
		return Meta{}, aggregates.Validation(op, "created_at is required")
	case updatedAt.IsZero():
		return Meta{}, aggregates.Validation(op, "updated_at is required")
	}
	return Meta{id: id, createdAt: createdAt, updatedAt: updatedAt}, nil
}

func (m Meta) ID() uuid.UUID        { return m.id }
func (m Meta) CreatedAt() time.Time { return m.createdAt }
func (m Meta) UpdatedAt() time.Time { return m.updatedAt }

func (m Meta) valid() bool {
	return m.id != uuid.Nil && !m.createdAt.IsZero() && !m.updatedAt.IsZero()
}

// Entity is implemented by Transient and Loaded only.
type Entity[T any] interface {
	Value() T
	identity() (Meta, bool)
}

// Identity returns the persisted identity of e, or false when e is transient.
func Identity[T any](e Entity[T]) (Meta, bool) {
	if e == nil {
		return Meta{}, false
	}
	return e.identity()
}

// Transient wraps a value that has not been persisted yet.
type Transient[T any] struct {
	value T
}

func NewTransient[T any](v T) Transient[T] { return Transient[T]{value: v} }

func (t Transient[T]) Value() T { return t.value }

func (Transient[T]) identity() (Meta, bool) { return Meta{}, false }

// Loaded wraps a persisted value. The zero Loaded is invalid; use NewLoaded.
type Loaded[T any] struct {
	meta  Meta
	value T
}

func NewLoaded[T any](m Meta, v T) (Loaded[T], error) {
	if !m.valid() {
		return Loaded[T]{}, aggregates.Validation("entity.load", "loaded entity requires id and timestamps")
	}
	return Loaded[T]{meta: m, value: v}, nil
}

func (l Loaded[T]) Value() T             { return l.value }
func (l Loaded[T]) Meta() Meta           { return l.meta }
func (l Loaded[T]) ID() uuid.UUID        { return l.meta.id }
func (l Loaded[T]) CreatedAt() time.Time { return l.meta.createdAt }
func (l Loaded[T]) UpdatedAt() time.Time { return l.meta.updatedAt }

func (l Loaded[T]) identity() (Meta, bool) { return l.meta, true }

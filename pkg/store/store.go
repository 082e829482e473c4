// Package store persists degree plans between runs. Plans are stored as
// opaque plan-document JSON (the pkg/io format) under uuid identifiers,
// with an in-memory backend for development and tests and a MongoDB
// backend for shared deployments.
package store

import (
	"context"
	"time"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
)

// StoredPlan is one persisted plan. Document holds the plan-document JSON
// exactly as imported or exported by pkg/io; the store never interprets it.
type StoredPlan struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Document  []byte    `bson:"document" json:"document"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store is the plan persistence interface.
//
// Get and Update return a PLAN_NOT_FOUND error for unknown identifiers;
// Delete of an unknown identifier is a no-op.
type Store interface {
	Create(ctx context.Context, name string, document []byte) (*StoredPlan, error)
	Get(ctx context.Context, id string) (*StoredPlan, error)
	List(ctx context.Context) ([]*StoredPlan, error)
	Update(ctx context.Context, id string, document []byte) (*StoredPlan, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return cgerrors.New(cgerrors.ErrCodePlanNotFound, "plan %s not found", id)
}

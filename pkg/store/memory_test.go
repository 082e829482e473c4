package store

import (
	"bytes"
	"context"
	"testing"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := []byte(`{"courses": []}`)
	created, err := s.Create(ctx, "cs-major", doc)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create assigned no ID")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps = (%v, %v), want equal and set", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "cs-major" || !bytes.Equal(got.Document, doc) {
		t.Errorf("Get = %+v, want stored plan", got)
	}

	doc2 := []byte(`{"courses": [{"name": "MATH 20A", "credits": 4}]}`)
	updated, err := s.Update(ctx, created.ID, doc2)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !bytes.Equal(updated.Document, doc2) {
		t.Error("Update did not replace the document")
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !cgerrors.Is(err, cgerrors.ErrCodePlanNotFound) {
		t.Errorf("Get after delete = %v, want PLAN_NOT_FOUND", err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "nope"); !cgerrors.Is(err, cgerrors.ErrCodePlanNotFound) {
		t.Errorf("Get = %v, want PLAN_NOT_FOUND", err)
	}
	if _, err := s.Update(ctx, "nope", nil); !cgerrors.Is(err, cgerrors.ErrCodePlanNotFound) {
		t.Errorf("Update = %v, want PLAN_NOT_FOUND", err)
	}
	// Deleting an unknown plan is a no-op.
	if err := s.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete = %v, want nil", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, _ := s.Create(ctx, "first", nil)
	second, _ := s.Create(ctx, "second", nil)

	plans, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("List = %d plans, want 2", len(plans))
	}
	// Creation order is preserved; ties on CreatedAt keep a stable result.
	ids := map[string]bool{plans[0].ID: true, plans[1].ID: true}
	if !ids[first.ID] || !ids[second.ID] {
		t.Errorf("List missing created plans: %v", plans)
	}
}

func TestMemoryStoreCopiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, _ := s.Create(ctx, "p", []byte("{}"))
	created.Name = "mutated"

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "p" {
		t.Error("mutating a returned plan leaked into the store")
	}
}

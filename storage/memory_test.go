package storage

import (
	"context"
	"testing"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data, err := store.Get(ctx, QuizCollection)
	if err != nil {
		t.Fatalf("Get absent collection: %v", err)
	}
	if data != nil {
		t.Errorf("absent collection should be nil, got %q", data)
	}

	if err := store.Put(ctx, QuizCollection, []byte(`[{"id":"quiz-1"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, QuizCollection, []byte(`[]`)); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	// Put replaces the whole collection; last write wins.
	data, err = store.Get(ctx, QuizCollection)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("Get = %q, want replaced value", data)
	}

	// Collections are independent.
	data, err = store.Get(ctx, SubmissionCollection)
	if err != nil {
		t.Fatalf("Get other collection: %v", err)
	}
	if data != nil {
		t.Errorf("untouched collection should be nil, got %q", data)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := []byte(`[1,2,3]`)
	if err := store.Put(ctx, QuizCollection, original); err != nil {
		t.Fatalf("Put: %v", err)
	}
	original[1] = 'x'

	data, err := store.Get(ctx, QuizCollection)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `[1,2,3]` {
		t.Errorf("stored data aliased caller buffer: %q", data)
	}
}

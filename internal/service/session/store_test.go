package session_test

import (
	"context"
	"errors"
	"testing"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/session"
)

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := session.NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreCreateStartsAtVersionOne(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := &model.DiagnosticSession{ID: "s1", Status: model.StatusActive}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Version != 1 {
		t.Fatalf("version = %d, want 1", stored.Version)
	}
}

func TestMemoryStorePutDetectsStaleVersion(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	if err := store.Create(ctx, &model.DiagnosticSession{ID: "s1", Status: model.StatusActive}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two readers pick up the same version; only the first write wins.
	a, _ := store.Get(ctx, "s1")
	b, _ := store.Get(ctx, "s1")

	a.QuestionsAsked = 1
	if err := store.Put(ctx, a); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if a.Version != 2 {
		t.Fatalf("winning Put must bump version to 2, got %d", a.Version)
	}

	b.QuestionsAsked = 9
	if err := store.Put(ctx, b); !errors.Is(err, session.ErrVersionConflict) {
		t.Fatalf("stale Put err = %v, want ErrVersionConflict", err)
	}

	stored, _ := store.Get(ctx, "s1")
	if stored.QuestionsAsked != 1 {
		t.Fatalf("losing write leaked: questions asked = %d", stored.QuestionsAsked)
	}
}

func TestMemoryStorePutUnknownSession(t *testing.T) {
	store := session.NewMemoryStore()

	err := store.Put(context.Background(), &model.DiagnosticSession{ID: "ghost", Version: 1})
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	sess := &model.DiagnosticSession{
		ID:     "s1",
		Status: model.StatusActive,
		Answers: []model.QuestionAnswer{
			{QuestionID: "q1", AnswerValue: "original"},
		},
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, _ := store.Get(ctx, "s1")
	first.Answers[0].AnswerValue = "mutated"

	second, _ := store.Get(ctx, "s1")
	if second.Answers[0].AnswerValue != "original" {
		t.Fatal("Get must return a deep copy, not a shared reference")
	}
}

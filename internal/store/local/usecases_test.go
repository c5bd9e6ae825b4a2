package local

import (
	"context"
	"errors"
	"testing"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

func TestUseCaseListNewestFirst(t *testing.T) {
	kv := testKV(t)
	cases := NewUseCaseStore(kv)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := cases.Create(ctx, model.UseCaseForm{
			Title:       title,
			Description: "D",
			Content:     "C",
			Industry:    "Retail",
			Category:    "Automation",
		}); err != nil {
			t.Fatalf("Create(%q) error: %v", title, err)
		}
	}

	got, err := cases.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d cases, want 3", len(got))
	}
	if got[0].Title != "Third" || got[2].Title != "First" {
		t.Errorf("List order = [%s %s %s], want newest first", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestUseCaseLegacyFieldsNormalized(t *testing.T) {
	kv := testKV(t)
	cases := NewUseCaseStore(kv)
	ctx := context.Background()

	uc, err := cases.Create(ctx, model.UseCaseForm{
		Title:       "Legacy shape",
		Description: "D",
		Content:     "C",
		Industry:    "Healthcare",
		Category:    "AI",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if len(uc.Industries) != 1 || uc.Industries[0] != "Healthcare" {
		t.Errorf("Industries = %v, want promoted legacy value", uc.Industries)
	}
	if uc.Industry != "Healthcare" {
		t.Errorf("Industry = %q, want mirror of Industries[0]", uc.Industry)
	}

	industries := []string{"Finance", "Retail"}
	updated, err := cases.Update(ctx, uc.ID, model.UseCasePatch{Industries: &industries})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Industry != "Finance" {
		t.Errorf("Industry after array update = %q, want %q", updated.Industry, "Finance")
	}
}

func TestUseCaseValidation(t *testing.T) {
	kv := testKV(t)
	cases := NewUseCaseStore(kv)

	_, err := cases.Create(context.Background(), model.UseCaseForm{
		Title: "T", Description: "D", Content: "C",
	})
	if !store.IsValidation(err) {
		t.Fatalf("Create without industry = %v, want validation error", err)
	}
}

func TestUseCaseDeleteNotFound(t *testing.T) {
	kv := testKV(t)
	cases := NewUseCaseStore(kv)

	err := cases.Delete(context.Background(), "usecase_missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Delete(missing) = %v, want ErrNotFound", err)
	}
}

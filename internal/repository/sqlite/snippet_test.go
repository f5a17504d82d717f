package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devsnippet/internal/apperror"
	"github.com/sakif/devsnippet/internal/model"
	"github.com/sakif/devsnippet/internal/repository"
)

func createTestSnippet(t *testing.T, db *DB, userID string, s model.Snippet) *model.Snippet {
	t.Helper()
	s.UserID = userID
	if err := db.CreateSnippet(context.Background(), &s); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return &s
}

func TestCreateSnippet(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")

	snippet := &model.Snippet{
		UserID:   owner.ID,
		Title:    "Bubble Sort",
		Language: "python",
		Code:     "def bubble(xs): ...",
		Tags:     []string{"algo", "sort"},
	}
	if err := db.CreateSnippet(context.Background(), snippet); err != nil {
		t.Fatalf("CreateSnippet() error = %v", err)
	}

	if snippet.ID == "" {
		t.Error("expected snippet to have a generated ID")
	}
	if snippet.CreatedAt.IsZero() || snippet.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := db.GetSnippet(context.Background(), owner.ID, snippet.ID)
	if err != nil {
		t.Fatalf("GetSnippet() error = %v", err)
	}
	if got.Title != "Bubble Sort" || got.Language != "python" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "algo" || got.Tags[1] != "sort" {
		t.Errorf("Tags = %v, want [algo sort] in order", got.Tags)
	}
}

func TestCreateSnippet_NilTagsBecomeEmpty(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	s := createTestSnippet(t, db, owner.ID, model.Snippet{Title: "t", Language: "go", Code: "c"})

	got, err := db.GetSnippet(context.Background(), owner.ID, s.ID)
	if err != nil {
		t.Fatalf("GetSnippet() error = %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", got.Tags)
	}
}

func TestCreateSnippet_DuplicateTagsPreserved(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	s := createTestSnippet(t, db, owner.ID, model.Snippet{
		Title: "t", Language: "go", Code: "c",
		Tags: []string{"x", "x", "y"},
	})

	got, _ := db.GetSnippet(context.Background(), owner.ID, s.ID)
	if len(got.Tags) != 3 {
		t.Errorf("Tags = %v, duplicates must be kept as submitted", got.Tags)
	}
}

func TestGetSnippet_OtherOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	s := createTestSnippet(t, db, alice.ID, model.Snippet{Title: "t", Language: "go", Code: "c"})

	// Bob knows the id but does not own the snippet: same NotFound as a
	// nonexistent id.
	_, err := db.GetSnippet(context.Background(), bob.ID, s.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetSnippet() as non-owner: error = %v, want ErrNotFound", err)
	}
}

func TestListSnippets_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	createTestSnippet(t, db, alice.ID, model.Snippet{Title: "Sort", Language: "python", Code: "def f(): pass", Tags: []string{"algo"}})

	got, err := db.ListSnippets(context.Background(), alice.ID, repository.SnippetFilter{Language: "python"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Sort" {
		t.Errorf("alice's list = %v, want exactly the Sort snippet", got)
	}

	gotBob, err := db.ListSnippets(context.Background(), bob.ID, repository.SnippetFilter{Language: "python"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(gotBob) != 0 {
		t.Errorf("bob's list = %v, want empty", gotBob)
	}
}

func TestListSnippets_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "first", Language: "go", Code: "c"})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "second", Language: "go", Code: "c"})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "third", Language: "go", Code: "c"})

	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "third" || got[2].Title != "first" {
		t.Errorf("order = [%s %s %s], want newest first", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestListSnippets_LanguageExact(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "a", Language: "go", Code: "c"})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "b", Language: "Go", Code: "c"})

	// Language narrowing is exact and case-sensitive.
	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{Language: "go"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("language filter matched %v, want only the lowercase one", got)
	}
}

func TestListSnippets_TagExactElement(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "a", Language: "go", Code: "c", Tags: []string{"sorting"}})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "b", Language: "go", Code: "c", Tags: []string{"sort"}})

	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{Tag: "sort"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	// "sort" must match the element "sort" exactly, not "sorting".
	if len(got) != 1 || got[0].Title != "b" {
		t.Errorf("tag filter matched %v, want only the exact element", got)
	}
}

func TestListSnippets_QuerySubstring(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "Sorting", Language: "python", Code: "def BUBBLE_sort(): pass"})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "Other", Language: "go", Code: "fmt.Println()"})

	// q matches code content case-insensitively even when the title and
	// description don't contain it.
	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{Query: "bubble"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Sorting" {
		t.Errorf("query matched %v, want the snippet whose code contains bubble", got)
	}
}

func TestListSnippets_QueryMatchesTagElement(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "a", Language: "go", Code: "c", Tags: []string{"recursion"}})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "b", Language: "go", Code: "c", Tags: []string{"loops"}})

	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{Query: "recur"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("query over tags matched %v, want the recursion-tagged one", got)
	}
}

func TestListSnippets_QueryEscapesLikeWildcards(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "discount 100%", Language: "go", Code: "c"})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "plain", Language: "go", Code: "c"})

	// "%" in the query is literal text, not a wildcard that matches
	// everything.
	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{Query: "100%"})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "discount 100%" {
		t.Errorf("query matched %v, want only the literal match", got)
	}
}

func TestListSnippets_FiltersCombineWithAnd(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "match", Language: "python", Code: "bubble", Tags: []string{"algo"}})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "wrong lang", Language: "go", Code: "bubble", Tags: []string{"algo"}})
	createTestSnippet(t, db, owner.ID, model.Snippet{Title: "wrong tag", Language: "python", Code: "bubble", Tags: []string{"io"}})

	got, err := db.ListSnippets(context.Background(), owner.ID, repository.SnippetFilter{
		Query: "bubble", Language: "python", Tag: "algo",
	})
	if err != nil {
		t.Fatalf("ListSnippets() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "match" {
		t.Errorf("combined filter matched %v, want only the full match", got)
	}
}

func TestUpdateSnippet_WholesaleReplace(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	s := createTestSnippet(t, db, owner.ID, model.Snippet{
		Title: "old", Language: "go", Code: "old code",
		Description: "old desc", Tags: []string{"old"}, IsFavorite: true,
	})

	s.Title = "new"
	s.Language = "python"
	s.Code = "new code"
	s.Description = ""
	s.Tags = nil
	s.IsFavorite = false

	if err := db.UpdateSnippet(context.Background(), s); err != nil {
		t.Fatalf("UpdateSnippet() error = %v", err)
	}

	got, _ := db.GetSnippet(context.Background(), owner.ID, s.ID)
	if got.Title != "new" || got.Description != "" || len(got.Tags) != 0 || got.IsFavorite {
		t.Errorf("update is not a wholesale replace: %+v", got)
	}
}

func TestUpdateSnippet_OtherOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	s := createTestSnippet(t, db, alice.ID, model.Snippet{Title: "t", Language: "go", Code: "c"})

	hijack := *s
	hijack.UserID = bob.ID
	hijack.Title = "stolen"

	err := db.UpdateSnippet(context.Background(), &hijack)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateSnippet() as non-owner: error = %v, want ErrNotFound", err)
	}

	got, _ := db.GetSnippet(context.Background(), alice.ID, s.ID)
	if got.Title != "t" {
		t.Error("non-owner update modified the snippet")
	}
}

func TestToggleFavorite_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	s := createTestSnippet(t, db, owner.ID, model.Snippet{Title: "t", Language: "go", Code: "c"})

	once, err := db.ToggleFavorite(context.Background(), owner.ID, s.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !once.IsFavorite {
		t.Error("first toggle should set the flag")
	}

	twice, err := db.ToggleFavorite(context.Background(), owner.ID, s.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	// Toggling twice returns the snippet to its original state.
	if twice.IsFavorite {
		t.Error("second toggle should clear the flag")
	}
}

func TestToggleFavorite_NotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")

	_, err := db.ToggleFavorite(context.Background(), owner.ID, "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleFavorite() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteSnippet(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "a@example.com")
	s := createTestSnippet(t, db, owner.ID, model.Snippet{Title: "t", Language: "go", Code: "c"})

	if err := db.DeleteSnippet(context.Background(), owner.ID, s.ID); err != nil {
		t.Fatalf("DeleteSnippet() error = %v", err)
	}

	_, err := db.GetSnippet(context.Background(), owner.ID, s.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Error("snippet still readable after delete")
	}
}

func TestDeleteSnippet_OtherOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	s := createTestSnippet(t, db, alice.ID, model.Snippet{Title: "t", Language: "go", Code: "c"})

	err := db.DeleteSnippet(context.Background(), bob.ID, s.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteSnippet() as non-owner: error = %v, want ErrNotFound", err)
	}

	if _, err := db.GetSnippet(context.Background(), alice.ID, s.ID); err != nil {
		t.Error("non-owner delete removed the snippet")
	}
}

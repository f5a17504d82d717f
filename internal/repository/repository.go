// Package repository defines the storage interfaces the service layer
// depends on. Services program against these interfaces; the concrete
// implementation lives in repository/sqlite. Tests substitute in-memory
// mocks.
package repository

import (
	"context"

	"github.com/sakif/devsnippet/internal/model"
)

// SnippetFilter narrows a list query. Zero values mean "no filtering on
// this axis".
//
// Language and Tag are exact matches and are ANDed together with the
// (always-present) owner predicate. Query is a case-insensitive substring
// matched against title, description, code, language, or any individual
// tag element, ORed across those fields.
type SnippetFilter struct {
	Query    string
	Language string // exact, case-sensitive
	Tag      string // exact per-element match
}

// SnippetRepository is the snippet store. Every method takes the owner's
// userID and scopes the operation to it — there is no way to reach another
// user's snippet through this interface, and "not owned" is reported
// identically to "does not exist".
type SnippetRepository interface {
	CreateSnippet(ctx context.Context, snippet *model.Snippet) error
	GetSnippet(ctx context.Context, userID, id string) (*model.Snippet, error)
	ListSnippets(ctx context.Context, userID string, filter SnippetFilter) ([]model.Snippet, error)
	UpdateSnippet(ctx context.Context, snippet *model.Snippet) error
	ToggleFavorite(ctx context.Context, userID, id string) (*model.Snippet, error)
	DeleteSnippet(ctx context.Context, userID, id string) error
}

// UserRepository is the credential store.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

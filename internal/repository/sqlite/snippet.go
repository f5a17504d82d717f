package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devsnippet/internal/apperror"
	"github.com/sakif/devsnippet/internal/model"
	"github.com/sakif/devsnippet/internal/repository"
)

// compile-time check that *DB implements repository.SnippetRepository
var _ repository.SnippetRepository = (*DB)(nil)

const snippetColumns = `id, user_id, title, language, code, description, tags, is_favorite, created_at, updated_at`

// marshalTags serializes the tag slice for the TEXT column. A nil slice
// becomes "[]" so the column never holds JSON null and reads always come
// back as a (possibly empty) array.
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("sqlite: marshaling tags: %w", err)
	}
	return string(b), nil
}

// scanSnippet reads one row into a model.Snippet. The caller passes either
// a *sql.Row or *sql.Rows through the scanner interface.
func scanSnippet(scan func(dest ...any) error) (*model.Snippet, error) {
	var (
		s       model.Snippet
		rawTags string
	)
	err := scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&s.Language,
		&s.Code,
		&s.Description,
		&rawTags,
		&s.IsFavorite,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rawTags), &s.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshaling tags for snippet %s: %w", s.ID, err)
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return &s, nil
}

// CreateSnippet inserts a new snippet, generating the ID and timestamps.
// The caller must have set UserID; ownership is fixed at creation.
func (db *DB) CreateSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}

	tags, err := marshalTags(snippet.Tags)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, user_id, title, language, code, description, tags, is_favorite, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.UserID,
		snippet.Title,
		snippet.Language,
		snippet.Code,
		snippet.Description,
		tags,
		snippet.IsFavorite,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetSnippet retrieves a single snippet by id, scoped to its owner.
// A snippet owned by someone else produces the same NotFound as a
// nonexistent id.
func (db *DB) GetSnippet(ctx context.Context, userID, id string) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	s, err := scanSnippet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return s, nil
}

// escapeLike makes a user-supplied string safe to embed in a LIKE pattern,
// so "100%" matches the literal text instead of acting as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ListSnippets returns the caller's snippets, newest first, optionally
// narrowed by the filter.
//
// The WHERE clause is assembled from fixed fragments with ? placeholders —
// user input only ever travels as bound arguments, never as SQL text.
//
// Filter semantics:
//   - user_id = ? is always present (the ownership predicate).
//   - Language: exact, case-sensitive equality, ANDed.
//   - Tag: exact element match via json_each over the tags array, ANDed.
//   - Query: case-insensitive substring (SQLite LIKE is case-insensitive
//     for ASCII) against title OR description OR code OR language OR any
//     single tag element. The tag branch runs per array element, so a
//     query never matches across the boundary of two adjacent tags.
func (db *DB) ListSnippets(ctx context.Context, userID string, filter repository.SnippetFilter) ([]model.Snippet, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Language != "" {
		where = append(where, "language = ?")
		args = append(args, filter.Language)
	}

	if filter.Tag != "" {
		where = append(where,
			"EXISTS (SELECT 1 FROM json_each(snippets.tags) WHERE json_each.value = ?)")
		args = append(args, filter.Tag)
	}

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		where = append(where, `(
			title LIKE ? ESCAPE '\'
			OR description LIKE ? ESCAPE '\'
			OR code LIKE ? ESCAPE '\'
			OR language LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM json_each(snippets.tags) WHERE json_each.value LIKE ? ESCAPE '\')
		)`)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}

	// Secondary sort on id keeps the order deterministic when two
	// snippets share a created_at timestamp (xid is time-ordered).
	query := `SELECT ` + snippetColumns + ` FROM snippets WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		s, err := scanSnippet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// UpdateSnippet replaces title, language, code, description, tags, and
// is_favorite wholesale, scoped to id AND owner. ID, UserID, and created_at
// never change. Zero rows affected means not-found (or not yours — the two
// are indistinguishable by design).
func (db *DB) UpdateSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}

	tags, err := marshalTags(snippet.Tags)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, language = ?, code = ?, description = ?, tags = ?, is_favorite = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		snippet.Title,
		snippet.Language,
		snippet.Code,
		snippet.Description,
		tags,
		snippet.IsFavorite,
		snippet.UpdatedAt,
		snippet.ID,
		snippet.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// ToggleFavorite flips is_favorite in a single UPDATE statement and returns
// the updated snippet.
//
// Doing the flip in SQL (rather than read-modify-write in Go) makes the
// toggle atomic: two concurrent toggles both apply and the snippet ends up
// back where it started, instead of one request's write being lost.
func (db *DB) ToggleFavorite(ctx context.Context, userID, id string) (*model.Snippet, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET is_favorite = NOT is_favorite, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		time.Now(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: toggling favorite for snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("snippet", id)
	}

	return db.GetSnippet(ctx, userID, id)
}

// DeleteSnippet removes the caller-owned snippet by id.
func (db *DB) DeleteSnippet(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

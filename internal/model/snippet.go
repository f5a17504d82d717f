package model

import "time"

// Snippet represents a saved code snippet owned by exactly one user.
//
// The `json:"..."` tags tell Go's encoding/json package how to
// serialize/deserialize this struct to/from JSON. The frontend sends and
// receives exactly these field names.
//
// UserID is the owner and is fixed at creation — every repository query is
// scoped by it, so a snippet is never visible to anyone but its owner, even
// if its ID is known.
//
// Tags keeps the order the user submitted and permits duplicates; it is
// stored as a JSON array in a single TEXT column (see repository/sqlite).
type Snippet struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	Title       string    `json:"title"       db:"title"`
	Language    string    `json:"language"    db:"language"` // free-form: "go", "py", "js", ...
	Code        string    `json:"code"        db:"code"`
	Description string    `json:"description" db:"description"`
	Tags        []string  `json:"tags"        db:"tags"`
	IsFavorite  bool      `json:"isFavorite"  db:"is_favorite"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

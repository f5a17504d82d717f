package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/devsnippet/internal/apperror"
	"github.com/sakif/devsnippet/internal/model"
	"github.com/sakif/devsnippet/internal/repository"
)

const (
	MaxTitleLength = 200
	MaxCodeLength  = 100000 // ~100KB of code
)

// TagList is the wire form of a snippet's tags. Non-array JSON is silently
// replaced with an empty list instead of failing the whole request, which
// is what older clients of this API rely on.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		*t = TagList{}
		return nil
	}
	*t = tags
	return nil
}

// SnippetInput carries the caller-editable fields for create and update.
// Title, language, and code are enforced non-empty before anything is
// persisted; description, tags, and isFavorite default to their zero
// values when omitted.
type SnippetInput struct {
	Title       string  `json:"title"       validate:"required"`
	Language    string  `json:"language"    validate:"required"`
	Code        string  `json:"code"        validate:"required"`
	Description string  `json:"description"`
	Tags        TagList `json:"tags"`
	IsFavorite  bool    `json:"isFavorite"`
}

// SnippetService implements the snippet operations. Every method takes the
// acting user's id (resolved by the auth middleware) and passes it down to
// a repository that scopes all SQL by owner.
type SnippetService struct {
	repo     repository.SnippetRepository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// checkInput runs the shared validation for Create and Update.
func (s *SnippetService) checkInput(input SnippetInput) error {
	if err := s.validate.Struct(input); err != nil {
		return validationError(err)
	}
	if len(input.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(input.Code) > MaxCodeLength {
		return apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	return nil
}

// Create validates and saves a new snippet owned by userID.
func (s *SnippetService) Create(ctx context.Context, userID string, input SnippetInput) (*model.Snippet, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		UserID:      userID,
		Title:       input.Title,
		Language:    input.Language,
		Code:        input.Code,
		Description: input.Description,
		Tags:        input.Tags,
		IsFavorite:  input.IsFavorite,
	}
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}

	if err := s.repo.CreateSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("userID", userID),
	)

	return snippet, nil
}

// List returns the caller's snippets, newest first, narrowed by the filter.
func (s *SnippetService) List(ctx context.Context, userID string, filter repository.SnippetFilter) ([]model.Snippet, error) {
	snippets, err := s.repo.ListSnippets(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Update replaces all caller-editable fields of the snippet wholesale: a
// field omitted from the input resets to its default, it is not merged.
// NotFound covers both "no such id" and "not yours".
func (s *SnippetService) Update(ctx context.Context, userID, id string, input SnippetInput) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		ID:          id,
		UserID:      userID,
		Title:       input.Title,
		Language:    input.Language,
		Code:        input.Code,
		Description: input.Description,
		Tags:        input.Tags,
		IsFavorite:  input.IsFavorite,
	}
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}

	if err := s.repo.UpdateSnippet(ctx, snippet); err != nil {
		return nil, err
	}

	s.logger.Info("snippet updated",
		slog.String("id", id),
		slog.String("userID", userID),
	)

	// Read back for the canonical record (created_at, server-set
	// updated_at).
	return s.repo.GetSnippet(ctx, userID, id)
}

// ToggleFavorite flips the favorite flag and returns the updated snippet.
func (s *SnippetService) ToggleFavorite(ctx context.Context, userID, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.ToggleFavorite(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("snippet favorite toggled",
		slog.String("id", id),
		slog.Bool("isFavorite", snippet.IsFavorite),
	)

	return snippet, nil
}

// Delete removes the caller's snippet by id.
func (s *SnippetService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := s.repo.DeleteSnippet(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}

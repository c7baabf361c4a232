package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"magazine-backend/internal/extract"
	"magazine-backend/internal/shared/storage/files"
	"magazine-backend/internal/shared/telemetry"
)

// Service contains the content lifecycle: ingestion, state transitions,
// deletion with file cleanup, and reads.
type Service struct {
	Repo    Repo
	Files   *files.Store
	BaseURL string
}

// CreateInput carries upload metadata plus the staging keys of the files the
// upload layer has already written.
type CreateInput struct {
	Title            string
	Description      string
	EditorName       string
	Category         string
	OriginalFileName string
	ContentKey       string
	ThumbnailKey     string
}

// Create validates metadata, runs extraction on the staged content file, and
// persists a draft record. Every file written for the request is removed
// before an error is returned, so a failed upload leaves no orphans.
func (s *Service) Create(ctx context.Context, in CreateInput) (ContentItem, error) {
	staged := []string{in.ContentKey, in.ThumbnailKey}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	editorName := strings.TrimSpace(in.EditorName)
	if title == "" || description == "" || editorName == "" || strings.TrimSpace(in.Category) == "" {
		s.Files.Cleanup(staged...)
		return ContentItem{}, ErrMissingField
	}
	category, err := ParseCategory(strings.TrimSpace(in.Category))
	if err != nil {
		s.Files.Cleanup(staged...)
		return ContentItem{}, err
	}

	// Extension gate runs before any extraction work.
	fileType, err := FileTypeFromName(in.OriginalFileName)
	if err != nil {
		s.Files.Cleanup(staged...)
		return ContentItem{}, err
	}

	data, err := s.Files.ReadAll(ctx, in.ContentKey)
	if err != nil {
		s.Files.Cleanup(staged...)
		return ContentItem{}, err
	}

	result, err := extract.Process(data, string(fileType))
	if err != nil {
		s.Files.Cleanup(staged...)
		return ContentItem{}, err
	}
	for _, warning := range result.Warnings {
		telemetry.Warn("content.extract.warning", map[string]any{
			"file":    in.OriginalFileName,
			"warning": warning,
		})
	}

	contentDir := files.DirArticles
	if category == CategoryEditorSpeaks {
		contentDir = files.DirEditorSpeaks
	}
	contentKey, err := s.Files.Commit(ctx, in.ContentKey, contentDir)
	if err != nil {
		s.Files.Cleanup(staged...)
		return ContentItem{}, err
	}

	thumbnailKey := ""
	if in.ThumbnailKey != "" {
		thumbnailKey, err = s.Files.Commit(ctx, in.ThumbnailKey, files.DirThumbnails)
		if err != nil {
			s.Files.Cleanup(contentKey, in.ThumbnailKey)
			return ContentItem{}, err
		}
	}

	now := time.Now().UTC()
	item := ContentItem{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      description,
		EditorName:       editorName,
		Category:         category,
		OriginalFileName: in.OriginalFileName,
		FilePath:         contentKey,
		FileType:         fileType,
		ProcessedContent: result.Content,
		ThumbnailPath:    thumbnailKey,
		Status:           StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Create(ctx, item); err != nil {
		s.Files.Cleanup(contentKey, thumbnailKey)
		return ContentItem{}, err
	}

	telemetry.Info("content.created", map[string]any{
		"content_id": item.ID,
		"category":   string(item.Category),
		"file_type":  string(item.FileType),
		"pages":      result.Pages,
	})
	return item, nil
}

// Publish transitions an item to published, stamping publishedAt on the
// first publish only. Idempotent when already published.
func (s *Service) Publish(ctx context.Context, id string) (ContentItem, error) {
	item, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return ContentItem{}, err
	}
	item.Publish(time.Now().UTC())
	if err := s.Repo.Update(ctx, item); err != nil {
		return ContentItem{}, err
	}
	return item, nil
}

// Unpublish returns an item to draft. PublishedAt keeps its original value.
func (s *Service) Unpublish(ctx context.Context, id string) (ContentItem, error) {
	item, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return ContentItem{}, err
	}
	item.Unpublish(time.Now().UTC())
	if err := s.Repo.Update(ctx, item); err != nil {
		return ContentItem{}, err
	}
	return item, nil
}

// Delete removes the item's files best-effort, then the record. A record
// that cannot be found is reported, not silently ignored.
func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.Files.Cleanup(item.FilePath, item.ThumbnailPath)
	return s.Repo.Delete(ctx, id)
}

// Get returns a single item regardless of status.
func (s *Service) Get(ctx context.Context, id string) (ContentItem, error) {
	return s.Repo.GetByID(ctx, id)
}

// GetPublished returns a single item only if it is published.
func (s *Service) GetPublished(ctx context.Context, id string) (ContentItem, error) {
	item, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return ContentItem{}, err
	}
	if item.Status != StatusPublished {
		return ContentItem{}, ErrNotFound
	}
	return item, nil
}

// List returns a page of items matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter Filter) ([]ContentItem, int, error) {
	return s.Repo.List(ctx, filter)
}

// ListPublished returns published items of a category, newest publish first.
func (s *Service) ListPublished(ctx context.Context, category Category, page, limit int) ([]ContentItem, int, error) {
	return s.Repo.List(ctx, Filter{
		Category:          category,
		Status:            StatusPublished,
		Page:              page,
		Limit:             limit,
		SortByPublishedAt: true,
	})
}

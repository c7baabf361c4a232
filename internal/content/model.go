package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Category partitions content between the two magazine sections.
type Category string

const (
	CategoryArticle      Category = "article"
	CategoryEditorSpeaks Category = "editor-speaks"
)

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryArticle, CategoryEditorSpeaks:
		return Category(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
}

// FileType identifies the uploaded document format.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

// FileTypeFromName derives the file type from the original filename's
// extension. Unsupported extensions are rejected before any extraction work.
func FileTypeFromName(name string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FileTypePDF, nil
	case ".docx":
		return FileTypeDOCX, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// Status is the visibility state of a content item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ContentItem is the persisted artifact record: submitted metadata, the
// extraction result, and the locations of the stored files.
type ContentItem struct {
	ID               string
	Title            string
	Description      string
	EditorName       string
	Category         Category
	OriginalFileName string
	FilePath         string
	FileType         FileType
	ProcessedContent string
	ThumbnailPath    string
	Status           Status
	PublishedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Publish transitions the item to published. PublishedAt is stamped only on
// the first publish and survives later unpublish/republish cycles.
func (c *ContentItem) Publish(now time.Time) {
	c.Status = StatusPublished
	if c.PublishedAt == nil {
		ts := now
		c.PublishedAt = &ts
	}
	c.UpdatedAt = now
}

// Unpublish returns the item to draft without touching PublishedAt.
func (c *ContentItem) Unpublish(now time.Time) {
	c.Status = StatusDraft
	c.UpdatedAt = now
}

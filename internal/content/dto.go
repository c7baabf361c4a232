package content

import "time"

// CreatedResponse is the projection returned after a successful upload.
type CreatedResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EditorName   string    `json:"editorName"`
	Category     Category  `json:"category"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
}

// StatusResponse is returned by publish/unpublish.
type StatusResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// ItemResponse is the full projection, including the extracted HTML.
type ItemResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	EditorName       string     `json:"editorName"`
	Category         Category   `json:"category"`
	OriginalFileName string     `json:"originalFileName"`
	FileType         FileType   `json:"fileType"`
	ProcessedContent string     `json:"processedContent"`
	Status           Status     `json:"status"`
	PublishedAt      *time.Time `json:"publishedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	ThumbnailURL     *string    `json:"thumbnailUrl"`
}

// SummaryResponse is the list projection; processedContent is omitted.
type SummaryResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	EditorName   string     `json:"editorName"`
	Category     Category   `json:"category"`
	FileType     FileType   `json:"fileType"`
	Status       Status     `json:"status"`
	PublishedAt  *time.Time `json:"publishedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ThumbnailURL *string    `json:"thumbnailUrl"`
}

// PageResponse wraps a listing with pagination totals.
type PageResponse struct {
	Content     []SummaryResponse `json:"content"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

func toCreatedResponse(item ContentItem, baseURL string) CreatedResponse {
	return CreatedResponse{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		EditorName:   item.EditorName,
		Category:     item.Category,
		Status:       item.Status,
		CreatedAt:    item.CreatedAt,
		ThumbnailURL: thumbnailURL(baseURL, item.ThumbnailPath),
	}
}

func toStatusResponse(item ContentItem) StatusResponse {
	return StatusResponse{
		ID:          item.ID,
		Title:       item.Title,
		Status:      item.Status,
		PublishedAt: item.PublishedAt,
	}
}

func toItemResponse(item ContentItem, baseURL string) ItemResponse {
	return ItemResponse{
		ID:               item.ID,
		Title:            item.Title,
		Description:      item.Description,
		EditorName:       item.EditorName,
		Category:         item.Category,
		OriginalFileName: item.OriginalFileName,
		FileType:         item.FileType,
		ProcessedContent: item.ProcessedContent,
		Status:           item.Status,
		PublishedAt:      item.PublishedAt,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		ThumbnailURL:     thumbnailURL(baseURL, item.ThumbnailPath),
	}
}

func toPageResponse(items []ContentItem, total, page, limit int, baseURL string) PageResponse {
	summaries := make([]SummaryResponse, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, SummaryResponse{
			ID:           item.ID,
			Title:        item.Title,
			Description:  item.Description,
			EditorName:   item.EditorName,
			Category:     item.Category,
			FileType:     item.FileType,
			Status:       item.Status,
			PublishedAt:  item.PublishedAt,
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
			ThumbnailURL: thumbnailURL(baseURL, item.ThumbnailPath),
		})
	}
	return PageResponse{
		Content:     summaries,
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}
}

// thumbnailURL derives the public URL for a stored thumbnail; nil when the
// item has none.
func thumbnailURL(baseURL, key string) *string {
	if key == "" {
		return nil
	}
	url := baseURL + "/uploads/" + key
	return &url
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

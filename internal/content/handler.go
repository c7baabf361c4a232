package content

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"magazine-backend/internal/extract"
	"magazine-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the reader-facing routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/public/articles", h.publicArticles)
	rg.GET("/public/editor-speaks", h.publicEditorSpeaks)
	rg.GET("/public/:id", h.publicGet)
	rg.GET("/public/:id/file", h.publicFile)
}

// RegisterAdminRoutes attaches the admin panel routes; the caller is expected
// to guard the group with auth middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/admin", h.adminList)
	rg.GET("/admin/:id", h.adminGet)
	rg.PUT("/admin/:id/publish", h.publish)
	rg.PUT("/admin/:id/unpublish", h.unpublish)
	rg.DELETE("/admin/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	contentHeader, err := c.FormFile("contentFile")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content file is required", nil)
		return
	}

	thumbHeader, err := c.FormFile("thumbnail")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read thumbnail", nil)
		return
	}

	contentKey, _, err := h.stageUpload(c, contentHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read content file", nil)
		return
	}

	thumbKey := ""
	if thumbHeader != nil {
		var thumbMime string
		thumbKey, thumbMime, err = h.stageUpload(c, thumbHeader)
		if err != nil {
			h.Svc.Files.Cleanup(contentKey)
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read thumbnail", nil)
			return
		}
		if !strings.HasPrefix(thumbMime, "image/") {
			h.Svc.Files.Cleanup(contentKey, thumbKey)
			respond.Error(c, http.StatusBadRequest, "validation_error", "only image files are allowed for thumbnails", nil)
			return
		}
	}

	item, err := h.Svc.Create(c.Request.Context(), CreateInput{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		EditorName:       c.PostForm("editorName"),
		Category:         c.PostForm("category"),
		OriginalFileName: contentHeader.Filename,
		ContentKey:       contentKey,
		ThumbnailKey:     thumbKey,
	})
	if err != nil {
		h.respondCreateError(c, err)
		return
	}

	c.Set("contentId", item.ID)
	respond.JSON(c, http.StatusCreated, toCreatedResponse(item, h.Svc.BaseURL))
}

func (h *Handler) stageUpload(c *gin.Context, header *multipart.FileHeader) (string, string, error) {
	f, err := header.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	key, _, mimeType, err := h.Svc.Files.SaveStaging(c.Request.Context(), header.Filename, f)
	return key, mimeType, err
}

func (h *Handler) respondCreateError(c *gin.Context, err error) {
	var extractionErr *extract.ExtractionError
	switch {
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidCategory):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedFileType):
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", err.Error(), nil)
	case errors.Is(err, extract.ErrNoContent):
		respond.Error(c, http.StatusBadRequest, "no_content", err.Error(), nil)
	case errors.As(err, &extractionErr):
		respond.Error(c, http.StatusBadRequest, "extraction_failed", "failed to process file", extractionErr.Err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "upload failed", nil)
	}
}

func (h *Handler) adminList(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	filter := Filter{Page: page, Limit: limit}
	if raw := c.Query("category"); raw != "" {
		category, err := ParseCategory(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		filter.Category = category
	}
	if raw := c.Query("status"); raw != "" {
		switch Status(raw) {
		case StatusDraft, StatusPublished:
			filter.Status = Status(raw)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", fmt.Sprintf("invalid status: %q", raw), nil)
			return
		}
	}

	items, total, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch content", nil)
		return
	}

	_, limit = normalizePage(page, limit)
	respond.OK(c, toPageResponse(items, total, page, limit, h.Svc.BaseURL))
}

func (h *Handler) adminGet(c *gin.Context) {
	item, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondReadError(c, err)
		return
	}
	respond.OK(c, toItemResponse(item, h.Svc.BaseURL))
}

func (h *Handler) publish(c *gin.Context) {
	item, err := h.Svc.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondReadError(c, err)
		return
	}
	c.Set("contentId", item.ID)
	respond.OK(c, toStatusResponse(item))
}

func (h *Handler) unpublish(c *gin.Context) {
	item, err := h.Svc.Unpublish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondReadError(c, err)
		return
	}
	c.Set("contentId", item.ID)
	respond.OK(c, toStatusResponse(item))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondReadError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "content deleted successfully"})
}

func (h *Handler) publicArticles(c *gin.Context) {
	h.publicList(c, CategoryArticle)
}

func (h *Handler) publicEditorSpeaks(c *gin.Context) {
	h.publicList(c, CategoryEditorSpeaks)
}

func (h *Handler) publicList(c *gin.Context, category Category) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	items, total, err := h.Svc.ListPublished(c.Request.Context(), category, page, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch content", nil)
		return
	}

	_, limit = normalizePage(page, limit)
	respond.OK(c, toPageResponse(items, total, page, limit, h.Svc.BaseURL))
}

func (h *Handler) publicGet(c *gin.Context) {
	item, err := h.Svc.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondReadError(c, err)
		return
	}
	respond.OK(c, toItemResponse(item, h.Svc.BaseURL))
}

// publicFile streams the original document inline so the magazine front-end
// can embed it.
func (h *Handler) publicFile(c *gin.Context) {
	item, err := h.Svc.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondReadError(c, err)
		return
	}

	fullPath, err := h.Svc.Files.FullPath(item.FilePath)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to serve file", nil)
		return
	}
	if _, err := os.Stat(fullPath); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}

	contentType := "application/pdf"
	if item.FileType == FileTypeDOCX {
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", item.OriginalFileName))
	c.Header("Accept-Ranges", "bytes")
	c.File(fullPath)
}

func (h *Handler) respondReadError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "content not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

package content

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const contentColumns = `id, title, description, editor_name, category, original_file_name, file_path, file_type, processed_content, thumbnail_path, status, published_at, created_at, updated_at`

// Create inserts a new content item.
func (r *PGRepo) Create(ctx context.Context, item ContentItem) error {
	const query = `
INSERT INTO content_items (
    id,
    title,
    description,
    editor_name,
    category,
    original_file_name,
    file_path,
    file_type,
    processed_content,
    thumbnail_path,
    status,
    published_at,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		item.ID,
		item.Title,
		item.Description,
		item.EditorName,
		string(item.Category),
		item.OriginalFileName,
		item.FilePath,
		string(item.FileType),
		item.ProcessedContent,
		nullString(item.ThumbnailPath),
		string(item.Status),
		nullTime(item.PublishedAt),
		item.CreatedAt,
		item.UpdatedAt,
	)
	return err
}

// GetByID fetches a content item by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (ContentItem, error) {
	const query = `
SELECT ` + contentColumns + `
FROM content_items
WHERE id = $1
LIMIT 1`
	item, err := scanItem(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContentItem{}, ErrNotFound
		}
		return ContentItem{}, err
	}
	return item, nil
}

// Update rewrites the mutable columns of an existing item.
func (r *PGRepo) Update(ctx context.Context, item ContentItem) error {
	const query = `
UPDATE content_items
SET title = $1,
    description = $2,
    editor_name = $3,
    status = $4,
    published_at = $5,
    updated_at = $6
WHERE id = $7`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		item.Title,
		item.Description,
		item.EditorName,
		string(item.Status),
		nullTime(item.PublishedAt),
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a content item row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of items matching the filter plus the total match count.
// Sorted by created_at descending, or published_at descending when requested.
func (r *PGRepo) List(ctx context.Context, filter Filter) ([]ContentItem, int, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	where := sq.And{}
	if filter.Category != "" {
		where = append(where, sq.Eq{"category": string(filter.Category)})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": string(filter.Status)})
	}

	orderBy := "created_at DESC"
	if filter.SortByPublishedAt {
		orderBy = "published_at DESC"
	}

	builder := psql.Select(contentColumns).
		From("content_items").
		OrderBy(orderBy).
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))
	countBuilder := psql.Select("COUNT(*)").From("content_items")
	if len(where) > 0 {
		builder = builder.Where(where)
		countBuilder = countBuilder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (ContentItem, error) {
	var item ContentItem
	var category, fileType, status string
	var thumbnail sql.NullString
	var publishedAt sql.NullTime
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.EditorName,
		&category,
		&item.OriginalFileName,
		&item.FilePath,
		&fileType,
		&item.ProcessedContent,
		&thumbnail,
		&status,
		&publishedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return ContentItem{}, err
	}
	item.Category = Category(category)
	item.FileType = FileType(fileType)
	item.Status = Status(status)
	if thumbnail.Valid {
		item.ThumbnailPath = thumbnail.String
	}
	if publishedAt.Valid {
		ts := publishedAt.Time
		item.PublishedAt = &ts
	}
	return item, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

var _ Repo = (*PGRepo)(nil)

package content

import "errors"

var (
	// ErrNotFound indicates the content item does not exist.
	ErrNotFound = errors.New("content not found")

	// ErrMissingField indicates a required metadata field is empty.
	ErrMissingField = errors.New("title, description, editor name, and category are required")

	// ErrUnsupportedFileType indicates the upload's extension is neither .pdf nor .docx.
	ErrUnsupportedFileType = errors.New("only PDF and Word documents are supported")

	// ErrInvalidCategory indicates a category outside the known enum.
	ErrInvalidCategory = errors.New("invalid category")
)

package export

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-richdoc/internal/transformer"
	"github.com/goliatone/go-richdoc/internal/workspace"
)

var (
	ErrSourceRequired  = errors.New("export: document source is required")
	ErrUnknownFormat   = errors.New("export: unknown format")
	ErrFormatRequired  = errors.New("export: format name and rules are required")
	ErrPieceRequired   = errors.New("export: content piece id is required")
	ErrDocumentMissing = errors.New("export: document is required")
	ErrUploadDisabled  = errors.New("export: object storage is not configured")

	ErrFrontMatterUnsupported = errors.New("export: format does not support front matter")
)

// Text codes attached to errors returned by Service.
const (
	CodeFormatUnknown     = "EXPORT_FORMAT_UNKNOWN"
	CodeRequestInvalid    = "EXPORT_REQUEST_INVALID"
	CodeStructureInvalid  = "DOCUMENT_STRUCTURE_INVALID"
	CodeSourceNotFound    = "EXPORT_SOURCE_NOT_FOUND"
	CodeSourceFailed      = "EXPORT_SOURCE_FAILED"
	CodeUploadFailed      = "EXPORT_UPLOAD_FAILED"
	CodeUploadUnavailable = "EXPORT_UPLOAD_UNAVAILABLE"
	CodeContextCanceled   = "EXPORT_CONTEXT_CANCELED"
)

func validationError(err error, message, code string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

func commandError(err error, message, code string) error {
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapRenderError(err error) error {
	if errors.Is(err, transformer.ErrInvalidStructure) {
		return validationError(err, "document structure is invalid", CodeStructureInvalid)
	}
	return commandError(err, "document render failed", CodeStructureInvalid)
}

func wrapSourceError(err error) error {
	if errors.Is(err, workspace.ErrNotFound) {
		return commandError(err, "document not found", CodeSourceNotFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return commandError(err, "export cancelled", CodeContextCanceled)
	}
	return commandError(err, "load document failed", CodeSourceFailed)
}

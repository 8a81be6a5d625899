package exportcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-richdoc/internal/export"
)

const exportDocumentMessageType = "richdoc.export.document"

// ExportDocumentCommand renders a stored content piece, optionally
// publishing it to object storage.
type ExportDocumentCommand struct {
	ContentPieceID uuid.UUID `json:"content_piece_id"`
	// Format selects the rule set, "gfm" or "html".
	Format string `json:"format"`
	Upload bool   `json:"upload,omitempty"`
}

// Type implements command.Message.
func (ExportDocumentCommand) Type() string { return exportDocumentMessageType }

// Validate ensures the piece id and a supported format are present.
func (cmd ExportDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ContentPieceID, validation.By(func(value any) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.NewError("richdoc.export.document.content_piece_required", "content piece id is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.Required, validation.In(export.FormatGFM, export.FormatHTML)),
	)
}

func (cmd ExportDocumentCommand) request() export.Request {
	return export.Request{
		ContentPieceID: cmd.ContentPieceID,
		Format:         cmd.Format,
		Upload:         cmd.Upload,
	}
}

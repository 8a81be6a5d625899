package export

import (
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-richdoc/internal/workspace"
)

type frontMatterHeader struct {
	Title          string `yaml:"title"`
	Slug           string `yaml:"slug"`
	WorkspaceID    string `yaml:"workspace_id"`
	ContentPieceID string `yaml:"content_piece_id"`
}

func frontMatter(piece *workspace.ContentPiece) (string, error) {
	data, err := yaml.Marshal(frontMatterHeader{
		Title:          piece.Title,
		Slug:           piece.Slug,
		WorkspaceID:    piece.WorkspaceID.String(),
		ContentPieceID: piece.ID.String(),
	})
	if err != nil {
		return "", err
	}
	return "---\n" + string(data) + "---\n", nil
}

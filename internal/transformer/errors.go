package transformer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRuleSetRequired  = errors.New("transformer: rule set required")
	ErrInvalidStructure = errors.New("transformer: invalid document structure")
	ErrMaxDepthExceeded = errors.New("transformer: maximum document depth exceeded")
)

// Structure violation reasons.
const (
	ReasonNilNode       = "nil node"
	ReasonCycle         = "cycle detected"
	ReasonLeafChildren  = "leaf node carries children"
	ReasonTextChildren  = "text run carries children"
	ReasonDepthExceeded = "maximum depth exceeded"
)

// StructureError reports a structural violation found before rendering.
// It matches ErrInvalidStructure, and ErrMaxDepthExceeded for depth
// violations.
type StructureError struct {
	Path     string
	NodeType string
	Reason   string
	MaxDepth int
}

func (e *StructureError) Error() string {
	if e == nil {
		return ErrInvalidStructure.Error()
	}
	parts := []string{ErrInvalidStructure.Error() + ": " + e.Reason}
	if e.NodeType != "" {
		parts = append(parts, "type="+e.NodeType)
	}
	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}
	if e.Reason == ReasonDepthExceeded && e.MaxDepth > 0 {
		parts = append(parts, fmt.Sprintf("max_depth=%d", e.MaxDepth))
	}
	return strings.Join(parts, " ")
}

// Is lets errors.Is match the package sentinels.
func (e *StructureError) Is(target error) bool {
	if target == ErrInvalidStructure {
		return true
	}
	return e != nil && target == ErrMaxDepthExceeded && e.Reason == ReasonDepthExceeded
}

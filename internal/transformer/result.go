package transformer

// Result holds the rendered output and non-fatal findings.
type Result struct {
	Output   string    `json:"output"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// WarningType categorises render warnings.
type WarningType string

const (
	WarningUnknownNode WarningType = "unknown_node"
	WarningUnknownMark WarningType = "unknown_mark"
)

// Warning reports a tag that rendered through the identity fallback.
type Warning struct {
	Type  WarningType `json:"type"`
	Tag   string      `json:"tag"`
	Count int         `json:"count"`
}

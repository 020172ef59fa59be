package ir

// Version constants for the model and the tool.
const (
	// ModelVersion is the structural model version recorded with stored runs.
	ModelVersion = "1"

	// ToolVersion is the reldir version.
	ToolVersion = "0.1.0"
)

package store

// Outcome values stored in the runs table. They match the pipeline's
// outcome strings.
const (
	OutcomeNormalized = "normalized"
	OutcomeNoFix      = "no_fix"
)

// RunOptions are the rendering options a run was made with.
type RunOptions struct {
	AlwaysEscape bool `json:"always_escape"`
	PrettyPrint  bool `json:"pretty_print"`
}

// Run is one recorded normalization.
type Run struct {
	ID           string     `json:"id"`
	Seq          int64      `json:"seq"`
	SchemaHash   string     `json:"schema_hash"`
	QueryHash    string     `json:"query_hash"`
	Query        string     `json:"query"`
	Output       string     `json:"output"`
	Outcome      string     `json:"outcome"`
	Reason       string     `json:"reason,omitempty"`
	Options      RunOptions `json:"options"`
	ToolVersion  string     `json:"tool_version"`
	ModelVersion string     `json:"model_version"`
}

// RunFilter narrows ReadRuns. Zero values match everything.
type RunFilter struct {
	SchemaHash string
	Outcome    string
	Limit      int // 0 = no limit
}

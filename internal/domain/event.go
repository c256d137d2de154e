package domain

// Progress statuses reported while a generation runs.
const (
	StatusProcessing = "processing"
	StatusGenerating = "generating"
	StatusComplete   = "complete"
)

// ProgressUpdate reports generation progress to socket clients.
type ProgressUpdate struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Progress *int   `json:"progress,omitempty"`
}

// ErrorEvent is sent to socket clients when an operation fails.
type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ConnectionEvent is delivered to client subscribers on connect and disconnect.
type ConnectionEvent struct {
	Status string `json:"status"`
}

// Operation names a generation pipeline entry point.
type Operation string

const (
	OpGenerate Operation = "generate"
	OpRefine   Operation = "refine"
	OpExplain  Operation = "explain"
	OpConvert  Operation = "convert"
)

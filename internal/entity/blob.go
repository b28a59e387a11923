package entity

import "github.com/Law-sys/subcontractor-pre-qual/constants"

// Blob is an opaque uploaded document. It is owned by the caller and read
// only for the duration of one analysis.
type Blob struct {
	Name      string
	Size      int64
	MediaType string
	Data      []byte
}

// ProgressEvent is advisory pipeline progress. The terminal event always has
// status complete or error.
type ProgressEvent struct {
	Status   constants.ProgressStatus `json:"status"`
	Progress int                      `json:"progress"`
	Stage    string                   `json:"stage"`
}

// ProgressFunc receives progress events. It may be nil; emitters must treat
// it as fire-and-forget.
type ProgressFunc func(ProgressEvent)

// Emit calls the sink when present.
func (f ProgressFunc) Emit(status constants.ProgressStatus, progress int, stage string) {
	if f != nil {
		f(ProgressEvent{Status: status, Progress: progress, Stage: stage})
	}
}

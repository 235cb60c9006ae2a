package domain

import "time"

type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoProcessing VideoStatus = "processing"
	VideoReady      VideoStatus = "ready"
	VideoFailed     VideoStatus = "failed"
)

// Video is a generated promotional asset. Generation failures are recorded
// on the row and re-triggered by a human, never retried automatically.
type Video struct {
	ID              string
	Prompt          string
	Status          VideoStatus
	URL             string
	DurationSeconds int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

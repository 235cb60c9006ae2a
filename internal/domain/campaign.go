package domain

import (
	"fmt"
	"time"
)

type CampaignStatus string

const (
	StatusScheduled CampaignStatus = "scheduled"
	StatusCountdown CampaignStatus = "countdown"
	StatusPlaying   CampaignStatus = "playing"
	StatusCompleted CampaignStatus = "completed"
	StatusCancelled CampaignStatus = "cancelled"
)

// Terminal reports whether the status has no outgoing transitions.
func (s CampaignStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether a campaign in this status occupies the display.
func (s CampaignStatus) Active() bool {
	return s == StatusCountdown || s == StatusPlaying
}

// CanTransition encodes the campaign state machine: forward through
// scheduled -> {countdown|playing} -> playing -> completed, or sideways
// to cancelled from any non-terminal state.
func (s CampaignStatus) CanTransition(to CampaignStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	switch s {
	case StatusScheduled:
		return to == StatusCountdown || to == StatusPlaying
	case StatusCountdown:
		return to == StatusPlaying
	case StatusPlaying:
		return to == StatusCompleted
	}
	return false
}

// AllowedCountdowns are the selectable pre-roll durations in seconds.
var AllowedCountdowns = []int{0, 10, 30, 60, 120, 300}

// Highlight is an optional promotional price change applied when the
// campaign's video finishes.
type Highlight struct {
	ProductID        string
	PromotionalPrice int64
	DurationSeconds  int
}

// VideoCampaign is a scheduled occupation of the display by a video.
// StartedAt is set once, on entering countdown or playing without countdown.
type VideoCampaign struct {
	ID               string
	VideoID          string
	ScheduledAt      time.Time
	CountdownSeconds int
	Status           CampaignStatus
	StartedAt        *time.Time
	CompletedAt      *time.Time
	Highlight        *Highlight
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks a campaign before it is persisted.
func (c *VideoCampaign) Validate() error {
	ok := false
	for _, v := range AllowedCountdowns {
		if c.CountdownSeconds == v {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: countdown %d seconds is not a selectable duration", ErrInvalidCampaign, c.CountdownSeconds)
	}
	if c.VideoID == "" {
		return fmt.Errorf("%w: video id is required", ErrInvalidCampaign)
	}
	if c.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", ErrInvalidCampaign)
	}
	if h := c.Highlight; h != nil {
		if h.ProductID == "" {
			return fmt.Errorf("%w: highlight product id is required", ErrInvalidCampaign)
		}
		if h.PromotionalPrice <= 0 {
			return fmt.Errorf("%w: highlight price must be positive", ErrInvalidCampaign)
		}
		if h.DurationSeconds <= 0 {
			return fmt.Errorf("%w: highlight duration must be positive", ErrInvalidCampaign)
		}
	}
	return nil
}

// CountdownOver reports whether the pre-roll has elapsed.
func (c *VideoCampaign) CountdownOver(now time.Time) bool {
	if c.StartedAt == nil {
		return false
	}
	return !now.Before(c.StartedAt.Add(time.Duration(c.CountdownSeconds) * time.Second))
}

// VideoEnd returns the instant the campaign's content finishes,
// given the duration of the attached video.
func (c *VideoCampaign) VideoEnd(videoDuration time.Duration) time.Time {
	if c.StartedAt == nil {
		return time.Time{}
	}
	return c.StartedAt.Add(time.Duration(c.CountdownSeconds)*time.Second + videoDuration)
}

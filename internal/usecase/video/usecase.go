package video

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/domain"
	"github.com/velmark/vitrine-display-service/internal/infrastructure/videogen"
)

// Usecase drives the external video-generation collaborator. Generation is
// fallible and slow: failures are recorded on the video row and a human
// re-triggers, the queue never retries this task.
type Usecase struct {
	videos domain.VideoRepository
	client *videogen.Client
	logger *zap.Logger
}

func NewUsecase(videos domain.VideoRepository, client *videogen.Client, logger *zap.Logger) *Usecase {
	return &Usecase{videos: videos, client: client, logger: logger}
}

// Generate runs the submit -> poll -> retrieve loop for one video record.
// The returned error is always nil once the outcome is recorded on the
// row, so the job is never re-run for an upstream failure.
func (uc *Usecase) Generate(ctx context.Context, videoID string) error {
	v, err := uc.videos.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if v.Status == domain.VideoReady {
		return nil
	}

	if err := uc.videos.UpdateStatus(ctx, v.ID, domain.VideoProcessing, "", 0, ""); err != nil {
		return fmt.Errorf("marking video %s processing: %w", v.ID, err)
	}

	result, err := uc.client.Generate(ctx, v.Prompt)
	if err != nil {
		uc.logger.Error("video generation failed",
			zap.String("video_id", v.ID),
			zap.Error(err),
		)
		if updErr := uc.videos.UpdateStatus(ctx, v.ID, domain.VideoFailed, "", 0, err.Error()); updErr != nil {
			return fmt.Errorf("recording video %s failure: %w", v.ID, updErr)
		}
		return nil
	}

	if err := uc.videos.UpdateStatus(ctx, v.ID, domain.VideoReady, result.URL, result.DurationSeconds, ""); err != nil {
		return fmt.Errorf("recording video %s result: %w", v.ID, err)
	}
	uc.logger.Info("video generated",
		zap.String("video_id", v.ID),
		zap.Int("duration_seconds", result.DurationSeconds),
	)
	return nil
}

package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"opticsmarket-backend/internal/domains/points/service"
	"opticsmarket-backend/internal/shared"
	"opticsmarket-backend/pkg/logger"
)

const defaultExpiryBatchSize = 500

// ExpirePointsHandler runs the scheduled sweep that voids earn entries
// past their expiry date.
type ExpirePointsHandler struct {
	pointsService service.PointsService
}

func NewExpirePointsHandler(pointsService service.PointsService) *ExpirePointsHandler {
	return &ExpirePointsHandler{
		pointsService: pointsService,
	}
}

func (h *ExpirePointsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ExpirePointsPayload
	if err := shared.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Failed to unmarshal expire points payload", err)
		return err
	}

	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExpiryBatchSize
	}

	expired, err := h.pointsService.ExpireDuePoints(ctx, batchSize)
	if err != nil {
		logger.Error("Point expiry sweep failed", err)
		return fmt.Errorf("expire due points: %w", err)
	}

	logger.Info("Point expiry sweep complete", map[string]interface{}{
		"expired":    expired,
		"batch_size": batchSize,
	})

	return nil
}

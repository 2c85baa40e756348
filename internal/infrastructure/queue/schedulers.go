package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"opticsmarket-backend/internal/shared"
	"opticsmarket-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerExpirePointsJob()
}

// ================================================
// JOB: Expire loyalty points (Daily at 3 AM UTC)
// ================================================
func (s *Scheduler) registerExpirePointsJob() error {
	payload, err := json.Marshal(shared.ExpirePointsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpirePoints, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpirePoints job", err)
		return err
	}

	logger.Info("Registered ExpirePoints job", map[string]interface{}{
		"schedule": "0 3 * * *",
	})

	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

package cron

import (
	"context"
	"log"
	"time"

	"trimly/config"
	reservationRepo "trimly/database/repository/reservation"

	"github.com/hibiken/asynq"
)

const TypeArchiveExpiredHolds = "reservations:archive_expired"

// InitArchivalWorker runs the async worker that periodically marks
// long-expired holds EXPIRED. The busy-interval read path already ignores
// lapsed holds, so this task is storage hygiene, not correctness.
func InitArchivalWorker(repo reservationRepo.ReservationRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeArchiveExpiredHolds, handleArchiveTask(repo))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register("@every 10m", asynq.NewTask(TypeArchiveExpiredHolds, nil)); err != nil {
		log.Printf("[ArchivalWorker] failed to register schedule: %v", err)
		return
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[ArchivalWorker] scheduler stopped: %v", err)
		}
	}()

	go func() {
		log.Println("[ArchivalWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ArchivalWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Println("[ArchivalWorker] max retry attempts reached; worker disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleArchiveTask(repo reservationRepo.ReservationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		grace := time.Duration(config.AppConfig.ExpiredHoldGraceMinutes) * time.Minute
		cutoff := time.Now().UTC().Add(-grace)

		archived, err := repo.ArchiveExpiredHolds(ctx, cutoff)
		if err != nil {
			log.Printf("[ArchivalWorker] archive run failed: %v", err)
			return err
		}
		if archived > 0 {
			log.Printf("[ArchivalWorker] archived %d expired holds", archived)
		}
		return nil
	}
}

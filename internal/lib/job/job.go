// Package job runs background work on asynq, a Redis-backed task queue.
//
// The HTTP process enqueues tasks through Client and works them off in the
// same process through an asynq.Server. Handlers are registered on a
// ServeMux before Start.
package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/invoice-dashboard/internal/config"
)

type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zerolog.Logger
	emails reportSender
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
	})

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
		logger: logger,
	}
}

// Handle registers fn for tasks of the given type. It must be called
// before Start.
func (j *JobService) Handle(taskType string, fn func(ctx context.Context, t *asynq.Task) error) {
	j.mux.HandleFunc(taskType, fn)
}

// Start begins processing tasks in the background and returns.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(j.mux)
}

// Stop waits for in-flight tasks and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

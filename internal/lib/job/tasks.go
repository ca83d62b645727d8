package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

const (
	// TaskSeed seeds the database with the placeholder data set.
	TaskSeed = "dashboard:seed"

	// TaskSeedReport mails the outcome of a seed run.
	TaskSeedReport = "email:seed_report"
)

// SeedUniqueTTL is how long asynq rejects a second seed task while the
// first is still queued or running.
const SeedUniqueTTL = 5 * time.Minute

// NewSeedTask builds the background seed task.
func NewSeedTask() *asynq.Task {
	return asynq.NewTask(
		TaskSeed,
		nil,
		asynq.Unique(SeedUniqueTTL),
		asynq.MaxRetry(3),
		asynq.Queue(QueueCritical),
		asynq.Timeout(5*time.Minute),
	)
}

// SeedReportPayload is stored in Redis as JSON.
type SeedReportPayload struct {
	To          string        `json:"to"`
	Environment string        `json:"environment"`
	Users       int           `json:"users"`
	Customers   int           `json:"customers"`
	Invoices    int           `json:"invoices"`
	Revenue     int           `json:"revenue"`
	Duration    time.Duration `json:"duration"`
}

func NewSeedReportTask(p SeedReportPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSeedReport,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueLow),
		asynq.Timeout(30*time.Second),
	), nil
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/lib/job"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/model/placeholder"
)

// recorder collects upserted rows and the order tables were touched in.
type recorder struct {
	mu     sync.Mutex
	tables []string
	users  []model.User
	rows   map[string]int
	fail   map[string]error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newRecorder() *recorder {
	return &recorder{rows: map[string]int{}, fail: map[string]error{}}
}

func (r *recorder) record(table string) error {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		m := r.maxInFlight.Load()
		if n <= m || r.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tables) == 0 || r.tables[len(r.tables)-1] != table {
		r.tables = append(r.tables, table)
	}
	if err := r.fail[table]; err != nil {
		return err
	}
	r.rows[table]++
	return nil
}

type userRecorder struct{ *recorder }

func (r userRecorder) Upsert(_ context.Context, u model.User) error {
	if err := r.record("users"); err != nil {
		return err
	}
	r.mu.Lock()
	r.users = append(r.users, u)
	r.mu.Unlock()
	return nil
}

type customerRecorder struct{ *recorder }

func (r customerRecorder) Upsert(context.Context, model.Customer) error { return r.record("customers") }

type invoiceRecorder struct{ *recorder }

func (r invoiceRecorder) Upsert(context.Context, model.Invoice) error { return r.record("invoices") }

type revenueRecorder struct{ *recorder }

func (r revenueRecorder) Upsert(context.Context, model.Revenue) error { return r.record("revenue") }

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: job.QueueCritical, Type: task.Type()}, nil
}

func newSeedService(rec *recorder, jobs TaskEnqueuer) *SeedService {
	logger := zerolog.Nop()
	return &SeedService{
		users:     userRecorder{rec},
		customers: customerRecorder{rec},
		invoices:  invoiceRecorder{rec},
		revenue:   revenueRecorder{rec},
		jobs:      jobs,
		data:      PlaceholderData(),
		cfg:       config.SeedConfig{BcryptCost: bcrypt.MinCost, Concurrency: 4},
		env:       "test",
		logger:    &logger,
	}
}

func TestSeed_WritesEveryTableInOrder(t *testing.T) {
	rec := newRecorder()
	svc := newSeedService(rec, nil)

	result, err := svc.Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SeedResult{Users: 1, Customers: 6, Invoices: 13, Revenue: 12}, result)
	assert.Equal(t, []string{"users", "customers", "invoices", "revenue"}, rec.tables)
	assert.LessOrEqual(t, rec.maxInFlight.Load(), int32(4))
}

func TestSeed_LogsThroughContextLogger(t *testing.T) {
	rec := newRecorder()
	svc := newSeedService(rec, nil)

	var buf bytes.Buffer
	requestLogger := zerolog.New(&buf).With().Str("request_id", "req-42").Logger()

	_, err := svc.Seed(requestLogger.WithContext(context.Background()))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), "seeded 13 invoices")
	assert.Contains(t, buf.String(), "database seeded")
}

func TestSeed_HashesPasswords(t *testing.T) {
	rec := newRecorder()
	svc := newSeedService(rec, nil)

	_, err := svc.Seed(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.users, 1)
	stored := rec.users[0].Password
	assert.NotEqual(t, placeholder.Users[0].Password, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte(placeholder.Users[0].Password)))

	cost, err := bcrypt.Cost([]byte(stored))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	// The shared placeholder slice must keep its plain text password.
	assert.Equal(t, "123456", placeholder.Users[0].Password)
}

func TestSeed_StopsAtFailingTable(t *testing.T) {
	rec := newRecorder()
	rec.fail["invoices"] = errors.New("connection reset")
	queue := &fakeQueue{}
	svc := newSeedService(rec, queue)
	svc.reports = true
	svc.cfg.NotifyEmail = "ops@example.com"

	result, err := svc.Seed(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "seeding invoices")
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, SeedResult{}, result)

	assert.NotContains(t, rec.tables, "revenue")
	assert.Empty(t, queue.tasks, "no report for a failed seed")
}

func TestSeed_InvalidBcryptCost(t *testing.T) {
	rec := newRecorder()
	svc := newSeedService(rec, nil)
	svc.cfg.BcryptCost = bcrypt.MaxCost + 1

	_, err := svc.Seed(context.Background())
	assert.ErrorContains(t, err, "hashing password for user@nextmail.com")
	assert.Zero(t, rec.rows["users"])
}

func TestSeed_EnqueuesReport(t *testing.T) {
	queue := &fakeQueue{}
	svc := newSeedService(newRecorder(), queue)
	svc.reports = true
	svc.cfg.NotifyEmail = "ops@example.com"

	_, err := svc.Seed(context.Background())
	require.NoError(t, err)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, job.TaskSeedReport, queue.tasks[0].Type())

	var p job.SeedReportPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &p))
	assert.Equal(t, "ops@example.com", p.To)
	assert.Equal(t, "test", p.Environment)
	assert.Equal(t, 13, p.Invoices)
}

func TestSeed_ReportFailureDoesNotFailSeed(t *testing.T) {
	svc := newSeedService(newRecorder(), &fakeQueue{err: errors.New("redis down")})
	svc.reports = true
	svc.cfg.NotifyEmail = "ops@example.com"

	_, err := svc.Seed(context.Background())
	assert.NoError(t, err)
}

func TestUpsertAll_Empty(t *testing.T) {
	n, err := upsertAll(context.Background(), 0, []int(nil), func(context.Context, int) error {
		t.Fatal("upsert called for empty input")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEnqueue(t *testing.T) {
	queue := &fakeQueue{}
	svc := newSeedService(newRecorder(), queue)

	res, err := svc.Enqueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EnqueueResult{TaskID: "task-1"}, res)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, job.TaskSeed, queue.tasks[0].Type())
}

func TestEnqueue_Duplicate(t *testing.T) {
	svc := newSeedService(newRecorder(), &fakeQueue{err: asynq.ErrDuplicateTask})

	res, err := svc.Enqueue(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Empty(t, res.TaskID)
}

func TestEnqueue_Errors(t *testing.T) {
	_, err := newSeedService(newRecorder(), nil).Enqueue(context.Background())
	assert.ErrorIs(t, err, ErrJobsUnavailable)

	_, err = newSeedService(newRecorder(), &fakeQueue{err: errors.New("redis down")}).Enqueue(context.Background())
	assert.ErrorContains(t, err, "redis down")
}

func TestHandleSeedTask(t *testing.T) {
	rec := newRecorder()
	svc := newSeedService(rec, nil)

	require.NoError(t, svc.HandleSeedTask(context.Background(), job.NewSeedTask()))
	assert.Equal(t, 13, rec.rows["invoices"])
}

type fakeInvoices struct {
	amounts  []int
	invoices []model.Invoice
	err      error
}

func (f *fakeInvoices) ListByAmount(_ context.Context, amount int) ([]model.Invoice, error) {
	f.amounts = append(f.amounts, amount)
	return f.invoices, f.err
}

func TestInvoiceService_ListByAmountDefault(t *testing.T) {
	repo := &fakeInvoices{invoices: []model.Invoice{placeholder.Invoices[6]}}
	svc := NewInvoiceService(repo, 666)

	invoices, err := svc.ListByAmount(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	_, err = svc.ListByAmount(context.Background(), 500)
	require.NoError(t, err)

	assert.Equal(t, []int{666, 500}, repo.amounts)
	assert.Equal(t, 666, svc.DefaultAmount())
}

func TestInvoiceService_ExportCSV(t *testing.T) {
	inv := placeholder.Invoices[6]
	inv.ID = "5c6f2a4e-7d37-4b8d-9d7c-0a8f4c1f2b11"
	svc := NewInvoiceService(&fakeInvoices{invoices: []model.Invoice{inv}}, 666)

	data, err := svc.ExportCSV(context.Background(), 0)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "customer_id", "amount", "status", "date"},
		{inv.ID, inv.CustomerID, "666", "pending", "2023-06-27"},
	}, records)
}

func TestInvoiceService_ExportCSVError(t *testing.T) {
	svc := NewInvoiceService(&fakeInvoices{err: errors.New("timeout")}, 666)

	data, err := svc.ExportCSV(context.Background(), 0)
	assert.Nil(t, data)
	assert.ErrorContains(t, err, "timeout")
}

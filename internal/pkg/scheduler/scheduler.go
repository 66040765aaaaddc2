package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rental-service/config"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	TypeDispatchWithdrawalPayout = "dispatch_withdrawal_payout"
)

type DispatchWithdrawalPayout struct {
	WithdrawalID string `json:"withdrawal_id" validate:"required"`
}

// Enqueuer schedules delayed work.
type Enqueuer interface {
	EnqueueDispatchPayout(ctx context.Context, withdrawalID string, delay time.Duration) error
}

type Scheduler struct {
	Log      *otelzap.Logger
	Client   *asynq.Client
	MaxRetry int
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (s *Scheduler) StartMonitoring(cfg *config.RedisConfig, port string) {
	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/monitoring",
		RedisConnOpt: redisOpt(cfg),
	})

	mux := http.NewServeMux()
	mux.Handle(h.RootPath()+"/", h)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		s.Log.Error("error start monitoring scheduler", zap.Error(err))
	}
}

func (s *Scheduler) InitClient(cfg *config.RedisConfig) *asynq.Client {
	s.Client = asynq.NewClient(redisOpt(cfg))
	return s.Client
}

// EnqueueDispatchPayout uses the withdrawal id as task id so a withdrawal has
// at most one queued dispatch.
func (s *Scheduler) EnqueueDispatchPayout(ctx context.Context, withdrawalID string, delay time.Duration) error {
	payload, err := json.Marshal(DispatchWithdrawalPayout{WithdrawalID: withdrawalID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeDispatchWithdrawalPayout, payload)
	_, err = s.Client.EnqueueContext(ctx, task,
		asynq.ProcessIn(delay),
		asynq.MaxRetry(s.MaxRetry),
		asynq.TaskID(TypeDispatchWithdrawalPayout+":"+withdrawalID),
	)
	if err == asynq.ErrTaskIDConflict {
		return nil
	}
	return err
}

func (s *Scheduler) StartHandler(cfg *config.RedisConfig, taskTypes []string, handlerFunc []func(ctx context.Context, t *asynq.Task) error) {
	srv := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
		},
	)
	mux := asynq.NewServeMux()

	for i, taskType := range taskTypes {
		mux = s.registerHandlers(mux, taskType, handlerFunc[i])
	}

	if err := srv.Run(mux); err != nil {
		s.Log.Error("error start handler scheduler", zap.Error(err))
	}
}

func (s *Scheduler) registerHandlers(mux *asynq.ServeMux, typeTask string, handlerFunc func(ctx context.Context, t *asynq.Task) error) *asynq.ServeMux {
	mux.HandleFunc(typeTask, handlerFunc)
	return mux
}

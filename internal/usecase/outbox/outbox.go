package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/internal/usecase/repository"
	"github.com/project/circulation/pkg/logger"
)

type (
	GlobalHandler = func(kind repository.OutboxKind) (KindHandler, error)
	KindHandler   = func(ctx context.Context, data []byte) error

	Outbox interface {
		Start(ctx context.Context, workers int, batchSize int, waitTime time.Duration, inProgressTTL time.Duration)
		Wait()
	}
)

var _ Outbox = (*outboxImpl)(nil)

type outboxImpl struct {
	logger           *zap.Logger
	outboxRepository repository.OutboxRepository
	globalHandler    GlobalHandler
	cfg              config.Outbox
	transactor       repository.Transactor
	wg               sync.WaitGroup
}

func New(
	logger *zap.Logger,
	outboxRepository repository.OutboxRepository,
	globalHandler GlobalHandler,
	cfg config.Outbox,
	transactor repository.Transactor,
) *outboxImpl {
	return &outboxImpl{
		logger:           logger,
		outboxRepository: outboxRepository,
		globalHandler:    globalHandler,
		cfg:              cfg,
		transactor:       transactor,
	}
}

func (o *outboxImpl) Start(
	ctx context.Context,
	workers int,
	batchSize int,
	waitTime time.Duration,
	inProgressTTL time.Duration,
) {
	for range workers {
		o.wg.Add(1)
		go o.worker(ctx, &o.wg, batchSize, waitTime, inProgressTTL)
	}
}

// Wait blocks until every worker has seen ctx done.
func (o *outboxImpl) Wait() {
	o.wg.Wait()
}

func (o *outboxImpl) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	batchSize int,
	waitTime time.Duration,
	inProgressTTL time.Duration,
) {
	defer wg.Done()

	timer := time.NewTimer(waitTime)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if ctx.Err() != nil {
			return
		}

		if o.cfg.Enabled {
			err := o.transactor.WithTx(ctx, func(ctx context.Context) error {
				return o.batch(ctx, batchSize, inProgressTTL)
			})
			logger.CheckError(err, o.logger, "worker stage error", zap.Error(err))
		}

		timer.Reset(waitTime)
	}
}

// batch delivers one batch. Failed messages go back to CREATED and are
// retried until the repository abandons them.
func (o *outboxImpl) batch(ctx context.Context, batchSize int, inProgressTTL time.Duration) error {
	messages, err := o.outboxRepository.GetMessages(ctx, batchSize, inProgressTTL)
	if logger.CheckError(err, o.logger, "can not fetch messages from outbox", zap.Error(err)) {
		return err
	}
	if len(messages) == 0 {
		return nil
	}
	logger.MakeInfo(o.logger, "messages fetched", zap.Int("size", len(messages)))

	successKeys := make([]string, 0, len(messages))
	failKeys := make([]string, 0, len(messages))
	for _, message := range messages {
		key := message.IdempotencyKey

		kindHandler, taskErr := o.globalHandler(message.Kind)
		if logger.CheckError(taskErr, o.logger, "unexpected kind",
			zap.String("key", key), zap.Error(taskErr)) {
			failKeys = append(failKeys, key)
			continue
		}

		taskErr = kindHandler(ctx, message.RawData)
		if logger.CheckError(taskErr, o.logger, "kind error",
			zap.String("key", key), zap.Stringer("kind", message.Kind), zap.Error(taskErr)) {
			failKeys = append(failKeys, key)
			continue
		}

		successKeys = append(successKeys, key)
	}

	if len(successKeys) > 0 {
		err = o.outboxRepository.MarkAs(ctx, successKeys, repository.Success)
		if logger.CheckError(err, o.logger, "mark as 'SUCCESS' outbox error", zap.Error(err)) {
			return err
		}
	}

	if len(failKeys) > 0 {
		err = o.outboxRepository.MarkAs(ctx, failKeys, repository.Created)
		if logger.CheckError(err, o.logger, "mark as 'CREATED' for fail task outbox error", zap.Error(err)) {
			return err
		}
	}

	return nil
}

package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"workbench/internal/i18n"
	"workbench/internal/logging"
)

// Poster sends one datalog entry.
type Poster interface {
	Post(ctx context.Context, content, unitInternalID string) (string, error)
}

// TxnRecorder persists the transaction hash on the unit.
type TxnRecorder interface {
	UpdateUnitTxnHash(ctx context.Context, internalID, txnHash string) error
}

// Notifier surfaces the outcome to the operator.
type Notifier interface {
	Success(text string)
	Error(text string)
}

// Scheduler runs ledger posts in the background.
type Scheduler struct {
	poster     Poster
	store      TxnRecorder
	notifier   Notifier
	translator *i18n.Translator
	logger     *slog.Logger
	attempts   int
	timeout    time.Duration

	wg sync.WaitGroup
}

// NewScheduler constructs a scheduler making at most attempts tries per post.
func NewScheduler(poster Poster, store TxnRecorder, notifier Notifier, translator *i18n.Translator, attempts int, logger *slog.Logger) *Scheduler {
	if attempts <= 0 {
		attempts = 3
	}
	return &Scheduler{
		poster:     poster,
		store:      store,
		notifier:   notifier,
		translator: translator,
		logger:     logging.NewComponentLogger(logger, "ledger"),
		attempts:   attempts,
		timeout:    2 * time.Minute,
	}
}

// Schedule posts content for the unit without blocking the caller.
func (s *Scheduler) Schedule(content, unitInternalID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		ctx = logging.WithUnitID(ctx, unitInternalID)
		_ = s.post(ctx, content, unitInternalID)
	}()
}

func (s *Scheduler) post(ctx context.Context, content, unitInternalID string) error {
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("posting to ledger", logging.String("content", content))

	attempt := 0
	var txnHash string
	operation := func() error {
		attempt++
		hash, err := s.poster.Post(ctx, content, unitInternalID)
		if err != nil {
			logger.Warn("ledger post attempt failed",
				logging.Int("attempt", attempt),
				logging.Int("attempts", s.attempts),
				logging.Error(err))
			return err
		}
		txnHash = hash
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(s.attempts-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		logging.ErrorWithContext(logger, "ledger post failed", "ledger_post_failed",
			logging.String(logging.FieldErrorHint, "check ledger bridge availability and account seed"),
			logging.Error(err))
		s.notify(func(n Notifier) { n.Error(s.translator.T(i18n.FailedToWrite)) })
		return err
	}

	if err := s.store.UpdateUnitTxnHash(ctx, unitInternalID, txnHash); err != nil {
		logging.ErrorWithContext(logger, "failed to store ledger transaction hash", "ledger_txn_store_failed",
			logging.String(logging.FieldErrorHint, "check database access"),
			logging.String("txn_hash", txnHash),
			logging.Error(err))
		s.notify(func(n Notifier) { n.Error(s.translator.T(i18n.FailedToWrite)) })
		return err
	}
	logger.Info("content posted to ledger", logging.String("txn_hash", txnHash))
	s.notify(func(n Notifier) { n.Success(s.translator.T(i18n.DataPublished)) })
	return nil
}

func (s *Scheduler) notify(fn func(Notifier)) {
	if s.notifier != nil {
		fn(s.notifier)
	}
}

// Wait blocks until every scheduled post has finished or ctx ends.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

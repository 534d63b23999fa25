package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	authdomain "admissions-backend/internal/auth/domain"
	"admissions-backend/internal/feedback/domain"
	"admissions-backend/internal/feedback/usecase"
	"admissions-backend/pkg/config"

	"github.com/adhocore/gronx"
)

// systemAdmin is the identity scheduled runs execute under
var systemAdmin = &authdomain.User{
	ID:    "system",
	Email: "scheduler@system",
	Role:  authdomain.RoleAdmin,
}

// ReplySyncScheduler runs the reply sync on a cron schedule
type ReplySyncScheduler struct {
	feedbackUsecase usecase.FeedbackUsecase
	creds           config.MailCredentials
	cronExpr        string
	now             func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	runs    sync.WaitGroup
}

// NewReplySyncScheduler validates cronExpr up front
func NewReplySyncScheduler(feedbackUsecase usecase.FeedbackUsecase, creds config.MailCredentials, cronExpr string) (*ReplySyncScheduler, error) {
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid feedback sync cron expression: %q", cronExpr)
	}
	return &ReplySyncScheduler{
		feedbackUsecase: feedbackUsecase,
		creds:           creds,
		cronExpr:        cronExpr,
		now:             time.Now,
	}, nil
}

// Start begins the scheduler loop
func (s *ReplySyncScheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	log.Printf("[Scheduler] Starting feedback reply sync (cron: %s)", s.cronExpr)

	go func() {
		defer close(s.done)
		for {
			next, err := gronx.NextTickAfter(s.cronExpr, s.now(), false)
			if err != nil {
				log.Printf("[Scheduler] Cannot compute next tick: %v", err)
				select {
				case <-time.After(time.Minute):
					continue
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-time.After(time.Until(next)):
				s.launch(ctx)
			case <-ctx.Done():
				log.Println("[Scheduler] Feedback reply sync stopped")
				return
			}
		}
	}()
}

// launch starts one run in the background; Stop waits for it.
func (s *ReplySyncScheduler) launch(ctx context.Context) {
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		_, _ = s.RunOnce(ctx)
	}()
}

// Stop stops the scheduler loop and waits for an in-flight run to finish
func (s *ReplySyncScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.runs.Wait()
}

// RunOnce performs one sync unless a scheduled run is still in progress.
func (s *ReplySyncScheduler) RunOnce(ctx context.Context) (*domain.SyncResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[Scheduler] Previous reply sync still running, skipping tick")
		return nil, domain.ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	result, err := s.feedbackUsecase.SyncReplies(ctx, systemAdmin, s.creds)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("[Scheduler] Reply sync failed: %v", err)
		}
		return nil, err
	}
	if result.SyncedCount > 0 {
		log.Printf("[Scheduler] Reply sync updated %d feedback records", result.SyncedCount)
	}
	return result, nil
}

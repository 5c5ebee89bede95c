// Package scheduler implements the campaign dispatch scheduler: the
// periodic pass that reclaims stale work, claims due tasks, and fans
// out per-recipient sends over a bounded worker pool.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/delivery"
	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/platform/metrics"
	"github.com/calebsw/lettermill-api/internal/store"
)

// maxErrorMessageLen caps the aggregated failure summary stored on a
// task so a large campaign cannot bloat the row.
const maxErrorMessageLen = 2000

// LinkTracker rewrites links in a rendered body into tracking redirects
// scoped to one send.
type LinkTracker interface {
	TrackLinks(ctx context.Context, emailID uuid.UUID, body string) (string, error)
}

// UnsubscribeLinker builds the unsubscribe URL for a contact.
type UnsubscribeLinker interface {
	URLFor(contactID uuid.UUID) string
}

// Config holds the scheduler's tuning knobs.
type Config struct {
	// StaleAfter is how long a task may sit in processing before a pass
	// assumes its owner crashed and resets it to pending.
	StaleAfter time.Duration

	// SendConcurrency is the number of concurrent per-recipient sends
	// within one claimed task.
	SendConcurrency int

	// SendTimeout bounds each individual send.
	SendTimeout time.Duration
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		StaleAfter:      15 * time.Minute,
		SendConcurrency: 4,
		SendTimeout:     10 * time.Second,
	}
}

// Scheduler processes due send_campaign tasks. Multiple instances may
// run the same pass concurrently against one database; the atomic task
// claim guarantees each task is dispatched by exactly one of them.
type Scheduler struct {
	tasks     store.TaskStore
	campaigns store.CampaignStore
	renderer  delivery.TemplateRenderer
	sender    delivery.EmailSender
	tracker   LinkTracker
	unsub     UnsubscribeLinker
	cfg       Config
	metrics   *metrics.Metrics
	logger    *slog.Logger
	// now is swappable for tests
	now func() time.Time
}

// New creates a Scheduler.
// It returns an error if any of the required dependencies are missing.
func New(
	tasks store.TaskStore,
	campaigns store.CampaignStore,
	renderer delivery.TemplateRenderer,
	sender delivery.EmailSender,
	tracker LinkTracker,
	unsub UnsubscribeLinker,
	cfg Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Scheduler, error) {
	if tasks == nil {
		return nil, errors.New("scheduler: task store cannot be nil")
	}
	if campaigns == nil {
		return nil, errors.New("scheduler: campaign store cannot be nil")
	}
	if renderer == nil {
		return nil, errors.New("scheduler: template renderer cannot be nil")
	}
	if sender == nil {
		return nil, errors.New("scheduler: email sender cannot be nil")
	}
	if tracker == nil {
		return nil, errors.New("scheduler: link tracker cannot be nil")
	}
	if unsub == nil {
		return nil, errors.New("scheduler: unsubscribe linker cannot be nil")
	}

	defaults := DefaultConfig()
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaults.StaleAfter
	}
	if cfg.SendConcurrency <= 0 {
		cfg.SendConcurrency = defaults.SendConcurrency
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaults.SendTimeout
	}

	if m == nil {
		m = metrics.NewNop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		tasks:     tasks,
		campaigns: campaigns,
		renderer:  renderer,
		sender:    sender,
		tracker:   tracker,
		unsub:     unsub,
		cfg:       cfg,
		metrics:   m,
		logger:    logger.With("component", "scheduler"),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// ProcessScheduledTasks runs one scheduler pass and returns the number
// of tasks this instance claimed and processed. Tasks claimed by a
// concurrent instance are skipped silently. The pass itself fails only
// when the due-task query fails; per-task problems are recorded on the
// task rows.
func (s *Scheduler) ProcessScheduledTasks(ctx context.Context) (int, error) {
	s.metrics.SchedulerPasses.Inc()
	start := s.now()
	defer func() {
		s.metrics.SchedulerPassSeconds.Observe(time.Since(start).Seconds())
	}()

	// Crash recovery first, so work orphaned by a dead instance becomes
	// claimable in this same pass.
	reclaimed, err := s.tasks.ReclaimStale(ctx, s.cfg.StaleAfter)
	if err != nil {
		s.logger.Error("failed to reclaim stale tasks", "error", err)
	} else if reclaimed > 0 {
		s.metrics.TasksReclaimed.Add(float64(reclaimed))
		s.logger.Info("reclaimed stale tasks", "count", reclaimed)
	}

	due, err := s.tasks.GetDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to query due tasks: %w", err)
	}

	processed := 0
	for _, task := range due {
		claimed, err := s.tasks.Claim(ctx, task.ID)
		if err != nil {
			s.logger.Error("failed to claim task", "task_id", task.ID, "error", err)
			continue
		}
		if !claimed {
			// Another instance got there first.
			continue
		}

		s.metrics.TasksClaimed.Inc()
		s.processTask(ctx, task)
		processed++
	}

	return processed, nil
}

// processTask dispatches one claimed task and writes its terminal status.
func (s *Scheduler) processTask(ctx context.Context, task *domain.Task) {
	log := s.logger.With("task_id", task.ID, "campaign_id", task.CampaignID)

	campaign, err := s.campaigns.GetByID(ctx, task.CampaignID)
	if err != nil {
		s.failTask(ctx, task, fmt.Sprintf("campaign lookup failed: %v", err), log)
		return
	}

	contacts, err := s.campaigns.GetContacts(ctx, task.CampaignID)
	if err != nil {
		s.failTask(ctx, task, fmt.Sprintf("contact lookup failed: %v", err), log)
		return
	}

	// Eligibility is evaluated at send time, not at campaign creation:
	// a contact who unsubscribed between the two is skipped here.
	eligible := make([]*domain.Contact, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Eligible() {
			eligible = append(eligible, contact)
		} else {
			s.metrics.SendsTotal.WithLabelValues(metrics.SendOutcomeSkipped).Inc()
		}
	}

	log.Info("dispatching campaign",
		"recipients", len(eligible),
		"skipped", len(contacts)-len(eligible))

	failures := s.dispatch(ctx, campaign, eligible)

	errorMsg := summarizeFailures(len(eligible), failures)
	if err := s.tasks.UpdateStatus(ctx, task.ID, domain.TaskStatusCompleted, errorMsg); err != nil {
		log.Error("failed to mark task completed", "error", err)
		return
	}
	s.metrics.TasksCompleted.Inc()

	if err := s.campaigns.UpdateStatus(ctx, campaign.ID, domain.CampaignStatusCompleted); err != nil {
		log.Error("failed to mark campaign completed", "error", err)
	}

	log.Info("campaign dispatched",
		"sent", len(eligible)-len(failures),
		"failed", len(failures))
}

// sendFailure records one per-recipient delivery failure.
type sendFailure struct {
	email string
	err   error
}

// dispatch fans the campaign out to the eligible contacts over a
// bounded worker pool and joins on all sends before returning.
func (s *Scheduler) dispatch(
	ctx context.Context,
	campaign *domain.Campaign,
	contacts []*domain.Contact,
) []sendFailure {
	jobs := make(chan *domain.Contact)

	var mu sync.Mutex
	var failures []sendFailure

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.SendConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for contact := range jobs {
				if err := s.sendOne(ctx, campaign, contact); err != nil {
					s.metrics.SendsTotal.WithLabelValues(metrics.SendOutcomeFailed).Inc()
					mu.Lock()
					failures = append(failures, sendFailure{email: contact.Email, err: err})
					mu.Unlock()
				} else {
					s.metrics.SendsTotal.WithLabelValues(metrics.SendOutcomeAccepted).Inc()
				}
			}
		}()
	}

	for _, contact := range contacts {
		jobs <- contact
	}
	close(jobs)
	wg.Wait()

	return failures
}

// sendOne renders, link-tracks, and delivers the campaign to a single
// contact under the per-send timeout.
func (s *Scheduler) sendOne(ctx context.Context, campaign *domain.Campaign, contact *domain.Contact) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	body, err := s.renderer.Render(campaign.Body, delivery.RenderContext{
		Contact:        contact,
		UnsubscribeURL: s.unsub.URLFor(contact.ID),
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	// Each (campaign, contact) send gets its own send ID; the click rows
	// created here make the tracked links resolvable.
	emailID := uuid.New()
	body, err = s.tracker.TrackLinks(sendCtx, emailID, body)
	if err != nil {
		return fmt.Errorf("track links: %w", err)
	}

	msg := delivery.Message{
		ToEmail: contact.Email,
		ToName:  contact.Name,
		Subject: campaign.Subject,
		Body:    body,
	}
	if err := s.sender.Send(sendCtx, msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	return nil
}

// failTask marks a task failed after a pass-fatal error.
func (s *Scheduler) failTask(ctx context.Context, task *domain.Task, msg string, log *slog.Logger) {
	log.Error("task failed", "reason", msg)
	if err := s.tasks.UpdateStatus(ctx, task.ID, domain.TaskStatusFailed, msg); err != nil {
		log.Error("failed to mark task failed", "error", err)
		return
	}
	s.metrics.TasksFailed.Inc()
}

// summarizeFailures builds the error_message metadata for a completed
// task. Per-recipient failures never fail the task; they are recorded
// here for operators instead.
func summarizeFailures(total int, failures []sendFailure) string {
	if len(failures) == 0 {
		return ""
	}

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].email < failures[j].email
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d sends failed: ", len(failures), total)
	for i, f := range failures {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %v", f.email, f.err)
		if b.Len() > maxErrorMessageLen {
			b.WriteString("; ...")
			break
		}
	}
	return b.String()
}

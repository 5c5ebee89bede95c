// Package tracking implements click tracking for campaign emails: link
// rewriting at send time and the redirect resolver that records visits.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/platform/metrics"
	"github.com/calebsw/lettermill-api/internal/store"
)

// Visit classifies a recorded click.
type Visit string

// Visit kinds
const (
	// VisitFirst is the first recorded click for a tracking ID.
	VisitFirst Visit = "first"
	// VisitRepeat is any click after the first for the same ID.
	VisitRepeat Visit = "repeat"
)

// Common sentinel errors for the tracking service
var (
	// ErrLinkNotFound indicates an unknown tracking ID.
	ErrLinkNotFound = errors.New("tracked link not found")
)

// Resolution is the outcome of resolving a tracking ID: where to send
// the visitor and whether this was their first recorded click.
type Resolution struct {
	Destination string
	Visit       Visit
}

// hrefPattern matches absolute http(s) href values in an HTML body.
var hrefPattern = regexp.MustCompile(`href="(https?://[^"]+)"`)

// Service records click engagement against a ClickStore.
type Service struct {
	clicks store.ClickStore
	// publicBaseURL is the externally reachable base for /track links.
	publicBaseURL string
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewService creates a tracking Service.
func NewService(
	clicks store.ClickStore,
	publicBaseURL string,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Service, error) {
	if clicks == nil {
		return nil, errors.New("tracking: click store cannot be nil")
	}
	if publicBaseURL == "" {
		return nil, errors.New("tracking: public base URL cannot be empty")
	}
	if m == nil {
		m = metrics.NewNop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		clicks:        clicks,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		metrics:       m,
		logger:        logger.With("component", "tracking_service"),
	}, nil
}

// TrackLinks rewrites every absolute link in an HTML body into a
// tracking redirect scoped to one send, creating the pending click row
// each redirect resolves against. The same destination appearing twice
// gets two independent tracking IDs, so per-position engagement stays
// distinguishable.
func (s *Service) TrackLinks(ctx context.Context, emailID uuid.UUID, body string) (string, error) {
	var firstErr error

	rewritten := hrefPattern.ReplaceAllStringFunc(body, func(match string) string {
		if firstErr != nil {
			return match
		}

		destination := hrefPattern.FindStringSubmatch(match)[1]
		click, err := domain.NewClick(emailID, destination)
		if err != nil {
			firstErr = err
			return match
		}
		if err := s.clicks.Create(ctx, click); err != nil {
			firstErr = err
			return match
		}

		return fmt.Sprintf(`href="%s"`, s.TrackedURL(click.ID))
	})

	if firstErr != nil {
		return "", fmt.Errorf("failed to track links: %w", firstErr)
	}
	return rewritten, nil
}

// TrackedURL returns the public redirect URL for a tracking ID.
func (s *Service) TrackedURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/track/%s", s.publicBaseURL, id)
}

// ResolveAndTrack resolves a tracking ID to its destination and records
// the visit. The first visit flips the canonical row from pending to
// clicked in place; every later visit appends a fresh clicked row with
// the same send ID and link. Concurrent visits race on a single
// conditional update, so exactly one caller ever observes VisitFirst.
func (s *Service) ResolveAndTrack(ctx context.Context, id uuid.UUID) (*Resolution, error) {
	click, err := s.clicks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrClickNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to resolve tracked link: %w", err)
	}

	flipped, err := s.clicks.MarkClicked(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to record click: %w", err)
	}

	if flipped {
		s.metrics.ClicksTotal.WithLabelValues(string(VisitFirst)).Inc()
		s.logger.Debug("first click recorded",
			"tracking_id", id,
			"email_id", click.EmailID)
		return &Resolution{Destination: click.Link, Visit: VisitFirst}, nil
	}

	// Repeat visit: append-only history row. A failure here must not
	// break the visitor's redirect.
	repeat := domain.NewRepeatClick(click)
	if err := s.clicks.Create(ctx, repeat); err != nil {
		s.logger.Error("failed to record repeat click",
			"tracking_id", id,
			"error", err)
	} else {
		s.metrics.ClicksTotal.WithLabelValues(string(VisitRepeat)).Inc()
	}

	return &Resolution{Destination: click.Link, Visit: VisitRepeat}, nil
}

// ClickCount returns the number of recorded clicks for a send.
func (s *Service) ClickCount(ctx context.Context, emailID uuid.UUID) (int64, error) {
	count, err := s.clicks.CountByEmailID(ctx, emailID)
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return count, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chriserin/team/internal/parser"
)

var ErrEmptyTeam = errors.New("no valid Pokémon found to save")

type Options struct {
	Segment     string
	Version     string
	MaxAttempts int
	RetryDelay  time.Duration
	Logger      *slog.Logger
}

// TeamStore persists a parsed team as a JSON document in a ConfigService.
type TeamStore struct {
	svc         ConfigService
	segment     string
	version     string
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

func NewTeamStore(svc ConfigService, opts Options) *TeamStore {
	if opts.Segment == "" {
		opts.Segment = "broadcaster"
	}
	if opts.Version == "" {
		opts.Version = "1"
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &TeamStore{
		svc:         svc,
		segment:     opts.Segment,
		version:     opts.Version,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		logger:      opts.Logger.With(slog.String("segment", opts.Segment)),
	}
}

// Save stores team and returns the stored document.
func (s *TeamStore) Save(ctx context.Context, team []parser.Member) ([]byte, error) {
	if len(team) == 0 {
		return nil, ErrEmptyTeam
	}

	data, err := parser.EncodeTeam(team)
	if err != nil {
		return nil, err
	}

	if err := s.svc.Set(ctx, s.segment, s.version, string(data)); err != nil {
		return nil, fmt.Errorf("saving team: %w", err)
	}

	s.logger.Info("team saved", "members", len(team), "bytes", len(data))
	return data, nil
}

// Load reads the stored team. While nothing is stored yet it retries up to
// the configured number of attempts; a stored document that fails to decode
// is returned at once as a *parser.DecodeError.
func (s *TeamStore) Load(ctx context.Context) ([]parser.Member, error) {
	_, team, err := s.LoadLatest(ctx)
	return team, err
}

// LoadLatest is Load, also returning the id of the stored version.
func (s *TeamStore) LoadLatest(ctx context.Context) (int64, []parser.Member, error) {
	for attempt := 1; ; attempt++ {
		s.logger.Debug("checking for saved configuration", "attempt", attempt)

		id, team, err := s.Latest(ctx)
		if !errors.Is(err, ErrNotFound) {
			return id, team, err
		}
		if attempt >= s.maxAttempts {
			return 0, nil, ErrNotFound
		}

		s.logger.Info("no saved configuration, retrying", "attempt", attempt+1, "delay", s.retryDelay)
		timer := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Current reads the stored team once. A missing or blank document is
// ErrNotFound.
func (s *TeamStore) Current(ctx context.Context) ([]parser.Member, error) {
	_, team, err := s.Latest(ctx)
	return team, err
}

// Latest is Current, also returning the id of the stored version. The id
// is returned with a decode error so callers can tell a new bad version
// from one they already reported.
func (s *TeamStore) Latest(ctx context.Context) (int64, []parser.Member, error) {
	cfg, err := s.svc.Get(ctx, s.segment)
	if err != nil {
		return 0, nil, err
	}
	if strings.TrimSpace(cfg.Content) == "" {
		return cfg.ID, nil, ErrNotFound
	}

	team, err := parser.DecodeTeam([]byte(cfg.Content))
	if err != nil {
		s.logger.Error("stored team is invalid", "id", cfg.ID, "err", err)
		return cfg.ID, nil, err
	}
	return cfg.ID, team, nil
}

// Revision returns the id of the stored version without decoding it.
func (s *TeamStore) Revision(ctx context.Context) (int64, error) {
	cfg, err := s.svc.Get(ctx, s.segment)
	if err != nil {
		return 0, err
	}
	return cfg.ID, nil
}

// Segment is the configuration segment the team is stored under.
func (s *TeamStore) Segment() string {
	return s.segment
}

// History lists stored versions, newest first.
func (s *TeamStore) History(ctx context.Context) ([]Config, error) {
	return s.svc.History(ctx, s.segment)
}

package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("no saved configuration")

// Config is one stored configuration document.
type Config struct {
	ID        int64
	Segment   string
	Version   string
	Content   string
	UpdatedAt time.Time
}

// ConfigService is the external configuration service the team is persisted
// to. Get returns ErrNotFound when the segment has never been set.
type ConfigService interface {
	Set(ctx context.Context, segment, version, content string) error
	Get(ctx context.Context, segment string) (Config, error)
	History(ctx context.Context, segment string) ([]Config, error)
}

package store

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttlResume = 30 * 24 * time.Hour

// ResumeIndex tracks which PGN inputs a run already answered, so an
// interrupted benchmark can restart without re-querying the model.
type ResumeIndex struct{ rdb *redis.Client }

func NewResumeIndex(rdb *redis.Client) *ResumeIndex { return &ResumeIndex{rdb: rdb} }

// NewResumeIndexFromURL dials Redis from a redis:// URL.
func NewResumeIndexFromURL(url string) (*ResumeIndex, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &ResumeIndex{rdb: redis.NewClient(opts)}, nil
}

func (s *ResumeIndex) keyDone(runKey string) string {
	return "bench:run:" + strings.TrimSpace(runKey) + ":done"
}

// MarkDone records a finished input for the run.
func (s *ResumeIndex) MarkDone(ctx context.Context, runKey, file string) error {
	if strings.TrimSpace(file) == "" {
		return nil
	}
	if err := s.rdb.SAdd(ctx, s.keyDone(runKey), file).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, s.keyDone(runKey), ttlResume).Err()
}

// IsDone reports whether the input was already answered in this run.
func (s *ResumeIndex) IsDone(ctx context.Context, runKey, file string) (bool, error) {
	return s.rdb.SIsMember(ctx, s.keyDone(runKey), file).Result()
}

// Done lists all finished inputs for the run.
func (s *ResumeIndex) Done(ctx context.Context, runKey string) ([]string, error) {
	return s.rdb.SMembers(ctx, s.keyDone(runKey)).Result()
}

// Seed bulk-marks inputs recovered from an existing JSONL log.
func (s *ResumeIndex) Seed(ctx context.Context, runKey string, files map[string]bool) error {
	for f := range files {
		if err := s.MarkDone(ctx, runKey, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *ResumeIndex) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// ABOUTME: Orchestrator sequencing fetch, parse, and merge for one feed or a batch
// ABOUTME: Batch refresh isolates failures: a broken feed keeps its prior state

package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/feedvault/internal/merge"
	"github.com/harper/feedvault/internal/models"
	"github.com/harper/feedvault/internal/parse"
	"github.com/harper/feedvault/internal/resolve"
)

// Fetcher retrieves raw feed text for a URL. Satisfied by resolve.Resolver.
type Fetcher interface {
	FetchFeedXML(ctx context.Context, url string) (string, error)
}

var _ Fetcher = (*resolve.Resolver)(nil)

// Service runs the fetch-parse-merge pipeline.
type Service struct {
	fetcher Fetcher

	// DefaultInterval is the refresh cadence in minutes for feeds without
	// their own scan interval. Zero means such feeds are always due.
	DefaultInterval int
}

// NewService creates a refresh service over the given fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// ParseFeed fetches and parses one feed URL and merges the result with the
// prior state (nil for a first fetch), returning the feed's new value.
func (s *Service) ParseFeed(ctx context.Context, url string, existing *models.Feed) (*models.Feed, error) {
	text, err := s.fetcher.FetchFeedXML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	parsed, err := parse.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", url, err)
	}
	return merge.Merge(existing, parsed, url), nil
}

// RefreshFeed refreshes one stored feed. On any error the prior state is
// returned unchanged alongside the error, so the caller always has a usable
// feed value.
func (s *Service) RefreshFeed(ctx context.Context, feed *models.Feed) (*models.Feed, error) {
	updated, err := s.ParseFeed(ctx, feed.URL, feed)
	if err != nil {
		return feed, err
	}
	return updated, nil
}

// Result is the per-feed outcome of a batch refresh.
type Result struct {
	Feed    *models.Feed
	Err     error
	Skipped bool // scan interval not yet elapsed
}

// RefreshAll refreshes a batch of feeds sequentially. Feeds whose per-feed
// scan interval has not elapsed are skipped unless force is set. One feed's
// failure never aborts the batch; its prior state is carried in the result.
func (s *Service) RefreshAll(ctx context.Context, feeds []*models.Feed, force bool) []Result {
	results := make([]Result, 0, len(feeds))
	now := time.Now()
	for _, feed := range feeds {
		if ctx.Err() != nil {
			results = append(results, Result{Feed: feed, Err: ctx.Err()})
			continue
		}
		if !force && !s.due(feed, now) {
			results = append(results, Result{Feed: feed, Skipped: true})
			continue
		}
		updated, err := s.RefreshFeed(ctx, feed)
		results = append(results, Result{Feed: updated, Err: err})
	}
	return results
}

// due reports whether a feed's scan interval has elapsed. Feeds without
// their own interval fall back to the service default.
func (s *Service) due(feed *models.Feed, now time.Time) bool {
	interval := feed.ScanInterval
	if interval <= 0 {
		interval = s.DefaultInterval
	}
	if interval <= 0 || feed.LastUpdated.IsZero() {
		return true
	}
	return now.Sub(feed.LastUpdated) >= time.Duration(interval)*time.Minute
}

package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/mnr-feed/cache"
	"github.com/theoremus-urban-solutions/mnr-feed/config"
	"github.com/theoremus-urban-solutions/mnr-feed/fetch"
	"github.com/theoremus-urban-solutions/mnr-feed/gtfsrt"
	"github.com/theoremus-urban-solutions/mnr-feed/schedule"
	"github.com/theoremus-urban-solutions/mnr-feed/timeutil"
)

// Cache keys: one entry for each fleet-wide feed, one per station page.
const (
	feedCacheKey     = "GTFS-RT"
	delayCacheKey    = "GTFS-RT-DELAYS"
	stationKeyPrefix = "TT-"
)

// stationResult is the cached outcome of one station page build
type stationResult struct {
	Updated    time.Time
	Departures []Departure
}

// Service builds station and vehicle feeds for the agency
type Service struct {
	cfg    config.Config
	store  schedule.Store
	client *fetch.Client
	loc    *time.Location
	log    *zap.SugaredLogger

	stationCache *cache.Cache[stationResult]
	feedCache    *cache.Cache[*gtfsrt.Feed]
	delayCache   *cache.Cache[gtfsrt.DelayFeed]

	now func() time.Time
}

// NewService creates a Service for the configured agency
func NewService(cfg config.Config, store schedule.Store, log *zap.SugaredLogger) (*Service, error) {
	loc, err := timeutil.Location(cfg.Agency.Timezone)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:          cfg,
		store:        store,
		client:       fetch.NewClient(cfg.Timeout()),
		loc:          loc,
		log:          log,
		stationCache: cache.New[stationResult](),
		feedCache:    cache.New[*gtfsrt.Feed](),
		delayCache:   cache.New[gtfsrt.DelayFeed](),
		now:          time.Now,
	}, nil
}

// loadFullFeed returns the decoded fleet-wide feed, refreshing the cache on
// miss. Concurrent cold-cache callers may each trigger a refresh.
func (s *Service) loadFullFeed(ctx context.Context) (*gtfsrt.Feed, error) {
	if f, ok := s.feedCache.Get(feedCacheKey); ok {
		return f, nil
	}
	body, err := s.client.GetWithKey(ctx, s.cfg.FeedURL(), s.cfg.Feed.GTFSRT.APIKey)
	if err != nil {
		return nil, err
	}
	f, err := gtfsrt.DecodeFeed(body)
	if err != nil {
		return nil, err
	}
	s.feedCache.Put(feedCacheKey, f, s.cfg.FeedTTL())
	return f, nil
}

// loadDelays returns the delay-only corroboration feed, or nil when no
// delay feed is configured. Delay feed failures degrade to no corroboration
// rather than failing the station request.
func (s *Service) loadDelays(ctx context.Context) gtfsrt.DelayFeed {
	if s.cfg.Feed.GTFSRT.DelaysURL == "" {
		return nil
	}
	if d, ok := s.delayCache.Get(delayCacheKey); ok {
		return d
	}
	body, err := s.client.Get(ctx, s.cfg.DelaysURL())
	if err != nil {
		s.log.Warnw("could not download delay feed", "error", err)
		return nil
	}
	delays, err := gtfsrt.DecodeDelays(body)
	if err != nil {
		s.log.Warnw("could not decode delay feed", "error", err)
		return nil
	}
	if len(delays) > 0 {
		s.delayCache.Put(delayCacheKey, delays, s.cfg.DelayFeedTTL())
	}
	return delays
}

// Package feed assembles a user's aggregated timeline from the casts of
// their mutual connections. The hub caps how many author ids one call may
// name, so connections are fetched in concurrent batches and merged,
// deduplicated, sorted and paginated locally.
package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/castmatch/castmatch-backend/internal/hub"
	"github.com/castmatch/castmatch-backend/internal/model"
)

// ConnectionSource resolves a user's mutual connections. Satisfied by
// *connections.Graph.
type ConnectionSource interface {
	Mutuals(ctx context.Context, userID string) ([]model.Connection, error)
}

// Options bounds one aggregator instance.
type Options struct {
	// AuthorBatchCap is the hub's per-call author id limit.
	AuthorBatchCap int
	// PageLimit is the hub's maximum page size. Every batch call requests
	// this many items regardless of the caller's limit; pagination happens
	// locally.
	PageLimit int
	// DefaultLimit is the page size when the caller omits limit.
	DefaultLimit int
	// MaxLimit caps the caller-supplied limit.
	MaxLimit int
}

// Aggregator builds feed pages. Stateless between requests; safe for
// concurrent use.
type Aggregator struct {
	graph  ConnectionSource
	source hub.Source
	opts   Options
	log    zerolog.Logger
}

// NewAggregator wires a feed aggregator. Zero Options fields fall back to
// workable defaults.
func NewAggregator(graph ConnectionSource, source hub.Source, opts Options, log zerolog.Logger) *Aggregator {
	if opts.AuthorBatchCap < 1 {
		opts.AuthorBatchCap = 100
	}
	if opts.PageLimit < 1 {
		opts.PageLimit = 150
	}
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = 25
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	return &Aggregator{graph: graph, source: source, opts: opts, log: log}
}

// Feed returns one page of userID's aggregated timeline. A failed batch
// fetch contributes zero items and is reported in metadata, never as an
// error; unrelated batches still land. The cursor is the one returned by a
// previous call, or empty for the first page.
func (a *Aggregator) Feed(ctx context.Context, userID string, limit int, cursorToken string) (*model.FeedPage, error) {
	if limit <= 0 {
		limit = a.opts.DefaultLimit
	}
	if limit > a.opts.MaxLimit {
		limit = a.opts.MaxLimit
	}
	offset := decodeCursor(cursorToken)

	conns, err := a.graph.Mutuals(ctx, userID)
	if err != nil {
		return nil, err
	}

	meta := model.FeedMetadata{MutualConnections: len(conns)}
	if len(conns) == 0 {
		return &model.FeedPage{
			Items:      []model.FeedItem{},
			Pagination: model.FeedPagination{Total: 0, HasMore: false},
			Metadata:   meta,
		}, nil
	}

	authorized := make(map[string]struct{}, len(conns))
	authors := make([]string, 0, len(conns))
	for _, c := range conns {
		authorized[c.UserID] = struct{}{}
		authors = append(authors, c.UserID)
	}

	batches := chunkAuthors(authors, a.opts.AuthorBatchCap)
	meta.BatchesUsed = len(batches)
	meta.APICalls = len(batches)

	results := make([][]hub.Cast, len(batches))
	failures := make([]error, len(batches))
	var pace requestPacer
	var wg sync.WaitGroup
	for i, batch := range batches {
		if i > 0 {
			// Ramp launches with hub latency to stay under burst limits.
			// Local to this request; unrelated requests are not delayed.
			select {
			case <-time.After(pace.launchDelay()):
			case <-ctx.Done():
			}
		}
		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()
			started := time.Now()
			casts, err := a.source.CastsByAuthors(ctx, batch, a.opts.PageLimit)
			pace.observe(time.Since(started))
			if err != nil {
				failures[i] = err
				return
			}
			results[i] = casts
		}(i, batch)
	}
	wg.Wait()

	for i, err := range failures {
		if err == nil {
			continue
		}
		meta.FailedBatches++
		a.log.Warn().Err(err).
			Int("batch", i).
			Int("authors", len(batches[i])).
			Str("user_id", userID).
			Msg("feed batch fetch failed; contributing zero items")
	}

	// Merge in batch order, then item order, so dedup's first-wins rule is
	// deterministic even though fetches raced.
	seen := make(map[string]struct{})
	items := []model.FeedItem{}
	for _, casts := range results {
		meta.TotalFetched += len(casts)
		for _, cast := range casts {
			if _, ok := authorized[cast.AuthorID]; !ok {
				// The hub may return embeds or replies from non-connections.
				// Those never surface here.
				continue
			}
			if _, dup := seen[cast.Hash]; dup {
				continue
			}
			seen[cast.Hash] = struct{}{}
			items = append(items, normalizeCast(cast))
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	hasMore := end < total

	page := &model.FeedPage{
		Items:      items[offset:end],
		Pagination: model.FeedPagination{Total: total, HasMore: hasMore},
		Metadata:   meta,
	}
	if hasMore {
		page.Pagination.NextCursor = encodeCursor(end)
	}
	return page, nil
}

func chunkAuthors(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// normalizeCast converts a hub cast into a feed item. An explicit reaction
// count from the hub is authoritative; otherwise the count derives from the
// reactor array, else zero. Each counter is normalized independently.
func normalizeCast(c hub.Cast) model.FeedItem {
	item := model.FeedItem{
		Hash:      c.Hash,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Timestamp: parseCastTime(c.Timestamp),
	}
	if r := c.Reactions; r != nil {
		item.Likes = normalizeCount(r.LikesCount, r.Likes)
		item.Recasts = normalizeCount(r.RecastsCount, r.Recasts)
		item.Replies = normalizeCount(r.RepliesCount, r.Replies)
	}
	return item
}

func normalizeCount(explicit *int, reactors []string) int {
	if explicit != nil {
		return *explicit
	}
	return len(reactors)
}

// parseCastTime parses a hub timestamp. Unparsable values sort as epoch
// zero, oldest; the item itself is never dropped.
func parseCastTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t.UTC()
}

const (
	minLaunchDelay = 25 * time.Millisecond
	maxLaunchDelay = 250 * time.Millisecond
)

// requestPacer spaces batch launches by an EWMA of observed hub latency.
// One pacer per request; there is no cross-request state.
type requestPacer struct {
	mu   sync.Mutex
	ewma time.Duration
}

func (p *requestPacer) observe(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ewma == 0 {
		p.ewma = d
		return
	}
	p.ewma = (p.ewma + d) / 2
}

func (p *requestPacer) launchDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.ewma / 4
	if d < minLaunchDelay {
		d = minLaunchDelay
	}
	if d > maxLaunchDelay {
		d = maxLaunchDelay
	}
	return d
}

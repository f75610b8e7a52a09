// Package hub talks to the federated content hub that hosts users' casts.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/castmatch/castmatch-backend/internal/model"
)

// Source fetches casts authored by a set of users. The feed aggregator
// depends on this interface; Client is the production implementation.
type Source interface {
	// CastsByAuthors returns up to limit casts authored by the given users.
	// The hub may also return embedded or quoted casts from other authors;
	// callers filter those out.
	CastsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]Cast, error)
}

// Cast is one content item as the hub serializes it. Timestamp stays a raw
// string here; the aggregator parses it and decides how unparsable values
// sort. Reactions is nil when the hub omits engagement data entirely.
type Cast struct {
	Hash      string         `json:"hash"`
	AuthorID  string         `json:"authorId"`
	Text      string         `json:"text"`
	Timestamp string         `json:"timestamp"`
	Reactions *CastReactions `json:"reactions,omitempty"`
}

// CastReactions carries engagement data in the hub's two shapes: explicit
// counts, or arrays of reacting user ids. Counts are pointers so an absent
// count is distinguishable from an explicit zero.
type CastReactions struct {
	LikesCount   *int     `json:"likesCount,omitempty"`
	Likes        []string `json:"likes,omitempty"`
	RecastsCount *int     `json:"recastsCount,omitempty"`
	Recasts      []string `json:"recasts,omitempty"`
	RepliesCount *int     `json:"repliesCount,omitempty"`
	Replies      []string `json:"replies,omitempty"`
}

// Client is the HTTP hub client.
type Client struct {
	http *resty.Client
}

// NewClient builds a Client for the hub at baseURL. apiKey may be empty for
// unauthenticated hubs.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		c.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Client{http: c}
}

type castsRequest struct {
	AuthorIDs []string `json:"authorIds"`
	Limit     int      `json:"limit,omitempty"`
}

type castsResponse struct {
	Casts []Cast `json:"casts"`
}

// CastsByAuthors implements Source. Failures come back as
// model.SourceUnavailable so callers can tell hub trouble from local bugs.
func (c *Client) CastsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]Cast, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	req := castsRequest{AuthorIDs: authorIDs, Limit: limit}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/v1/casts/by-authors")
	if err != nil {
		return nil, model.NewError(model.SourceUnavailable, "content hub unreachable: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, model.NewError(model.SourceUnavailable, "content hub returned status %d", resp.StatusCode())
	}

	var out castsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, model.NewError(model.SourceUnavailable, "decode content hub response: %v", err)
	}
	return out.Casts, nil
}

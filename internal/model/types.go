package model

import "time"

// ActionKind enumerates the directional dispositions a user can take on
// another profile.
type ActionKind string

const (
	ActionLike   ActionKind = "like"
	ActionReject ActionKind = "reject"
)

// IsValid reports whether k is a supported action kind.
func (k ActionKind) IsValid() bool { return k == ActionLike || k == ActionReject }

// Action records one user's directional disposition toward another.
// At most one action exists per (actor, target) ordered pair; a repeat
// swipe overwrites the kind and refreshes UpdateTime.
type Action struct {
	ActorID      string     `json:"actorId"`
	TargetID     string     `json:"targetId"`
	Kind         ActionKind `json:"kind"`
	CreationTime time.Time  `json:"creationTime"`
	UpdateTime   time.Time  `json:"updateTime"`
}

// Persona is the interest profile distilled from a user's public network
// activity by an external profiling pipeline. Read-only to the core;
// ingested as-is via the persona endpoint.
type Persona struct {
	UserID          string    `json:"userId"`
	CoreInterests   []string  `json:"coreInterests,omitempty"`
	Projects        []string  `json:"projects,omitempty"`
	ContentThemes   []string  `json:"contentThemes,omitempty"`
	Channels        []string  `json:"channels,omitempty"`
	ExpertiseLevel  string    `json:"expertiseLevel,omitempty"`
	EngagementStyle string    `json:"engagementStyle,omitempty"`
	CreationTime    time.Time `json:"creationTime"`
	UpdateTime      time.Time `json:"updateTime"`
}

// Connection is a mutual match: both users have liked each other.
// Derived on demand, never stored.
type Connection struct {
	UserID      string    `json:"userId"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// PendingLike is a like that has not been reciprocated.
type PendingLike struct {
	UserID  string    `json:"userId"`
	LikedAt time.Time `json:"likedAt"`
}

// ActionResult is returned after recording an action. Matched is true when
// the action was a like that completed a mutual connection.
type ActionResult struct {
	Action  *Action `json:"action"`
	Matched bool    `json:"matched"`
}

// CandidateMatch is one ranked discovery result. MatchedOn maps category
// name to the shared values that produced the score; backfill candidates
// carry no evidence.
type CandidateMatch struct {
	UserID    string              `json:"userId"`
	Score     float64             `json:"score"`
	MatchedOn map[string][]string `json:"matchedOn,omitempty"`
	Persona   *Persona            `json:"persona,omitempty"`
}

// Pagination describes an offset-paginated result set.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DiscoverPage is one page of ranked candidates.
type DiscoverPage struct {
	Candidates []CandidateMatch `json:"candidates"`
	Pagination Pagination       `json:"pagination"`
}

// FeedItem is one merged, normalized cast in a user's aggregated feed.
type FeedItem struct {
	Hash      string    `json:"hash"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Recasts   int       `json:"recasts"`
	Replies   int       `json:"replies"`
}

// FeedPagination carries the cursor-based paging state of a feed response.
type FeedPagination struct {
	Total      int    `json:"total"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// FeedMetadata reports how a feed page was assembled. Diagnostic only.
type FeedMetadata struct {
	MutualConnections int `json:"mutualConnections"`
	APICalls          int `json:"apiCalls"`
	BatchesUsed       int `json:"batchesUsed"`
	TotalFetched      int `json:"totalFetched"`
	FailedBatches     int `json:"failedBatches"`
}

// FeedPage is one page of the aggregated timeline.
type FeedPage struct {
	Items      []FeedItem     `json:"items"`
	Pagination FeedPagination `json:"pagination"`
	Metadata   FeedMetadata   `json:"metadata"`
}

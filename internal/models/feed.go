package models

const (
	EventMediaCreated  = "media.created"
	EventReviewCreated = "review.created"
)

// FeedEvent is pushed to live-feed subscribers after a successful write.
type FeedEvent struct {
	Event  string    `json:"event"`
	Kind   MediaKind `json:"kind,omitempty"`
	Media  *Media    `json:"media,omitempty"`
	Review *Review   `json:"review,omitempty"`
}

package models

import "time"

const (
	DefaultReviewerName = "Anonymous"
	DefaultRating       = 5
	MinRating           = 1
	MaxRating           = 5
)

type Review struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	ImageID   *int      `json:"imageId"`
	VideoID   *int      `json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateReviewRequest accepts content under either "content" or "text".
type CreateReviewRequest struct {
	Content string   `json:"content"`
	Text    string   `json:"text"`
	Name    string   `json:"name"`
	Rating  LooseInt `json:"rating"`
	ImageID LooseInt `json:"imageId"`
	VideoID LooseInt `json:"videoId"`
}

// ReviewFilter narrows a listing to one media item. Zero value lists everything.
type ReviewFilter struct {
	ImageID *int
	VideoID *int
}

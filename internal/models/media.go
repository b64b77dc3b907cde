package models

import "time"

// MediaKind distinguishes the two media collections.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// ParseMediaKind accepts "image" or "video".
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(s) {
	case KindImage, KindVideo:
		return MediaKind(s), true
	}
	return "", false
}

// Plural is the collection name, also used as the upload sub-folder.
func (k MediaKind) Plural() string {
	return string(k) + "s"
}

// Media is an image or video record. Kind is implied by the collection it came from.
type Media struct {
	ID             int                  `json:"id"`
	Kind           MediaKind            `json:"-"`
	URL            string               `json:"url"`
	PhotographerID int                  `json:"photographerId"`
	CreatedAt      time.Time            `json:"createdAt"`
	Photographer   *PhotographerSummary `json:"photographer,omitempty"`
}

// PhotographerSummary is the owner info joined into media listings.
type PhotographerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

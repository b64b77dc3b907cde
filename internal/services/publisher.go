package services

import "studio-backend/internal/models"

// Publisher receives events after successful writes. Delivery is best effort.
type Publisher interface {
	Publish(event models.FeedEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.FeedEvent) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

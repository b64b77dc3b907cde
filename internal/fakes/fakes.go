// Package fakes holds in-memory stand-ins for the stores, the upload gateway
// and the feed publisher, for use in tests.
package fakes

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"studio-backend/internal/gateway"
	"studio-backend/internal/models"
)

// clock hands out strictly increasing timestamps so newest-first ordering is deterministic.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.now = c.now.Add(time.Second)
	return c.now
}

type PhotographerStore struct {
	mu      sync.Mutex
	clock   clock
	byID    map[int]models.Photographer
	nextID  int
	Creates int
	Err     error
}

func NewPhotographerStore() *PhotographerStore {
	return &PhotographerStore{byID: make(map[int]models.Photographer)}
}

func (s *PhotographerStore) Create(_ context.Context, email, name, passwordHash string) (models.Photographer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Photographer{}, s.Err
	}
	for _, p := range s.byID {
		if p.Email == email {
			return models.Photographer{}, models.ErrDuplicateEmail
		}
	}

	s.nextID++
	s.Creates++
	p := models.Photographer{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock.tick(),
	}
	s.byID[p.ID] = p
	return p, nil
}

func (s *PhotographerStore) FindByEmail(_ context.Context, email string) (models.Photographer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Photographer{}, s.Err
	}
	for _, p := range s.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return models.Photographer{}, models.ErrNotFound
}

func (s *PhotographerStore) FindByID(_ context.Context, id int) (models.Photographer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Photographer{}, s.Err
	}
	p, ok := s.byID[id]
	if !ok {
		return models.Photographer{}, models.ErrNotFound
	}
	return p, nil
}

func (s *PhotographerStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// MediaStore joins owner details from Photographers when listing.
type MediaStore struct {
	mu            sync.Mutex
	clock         clock
	Photographers *PhotographerStore
	items         map[models.MediaKind][]models.Media
	nextID        map[models.MediaKind]int
	Err           error
}

func NewMediaStore(photographers *PhotographerStore) *MediaStore {
	return &MediaStore{
		Photographers: photographers,
		items:         make(map[models.MediaKind][]models.Media),
		nextID:        make(map[models.MediaKind]int),
	}
}

func (s *MediaStore) Create(_ context.Context, kind models.MediaKind, url string, photographerID int) (models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Media{}, s.Err
	}

	s.nextID[kind]++
	m := models.Media{
		ID:             s.nextID[kind],
		Kind:           kind,
		URL:            url,
		PhotographerID: photographerID,
		CreatedAt:      s.clock.tick(),
	}
	s.items[kind] = append(s.items[kind], m)
	return m, nil
}

func (s *MediaStore) List(ctx context.Context, kind models.MediaKind) ([]models.Media, error) {
	s.mu.Lock()
	items := append([]models.Media(nil), s.items[kind]...)
	err := s.Err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]models.Media, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		m := items[i]
		if s.Photographers != nil {
			if p, err := s.Photographers.FindByID(ctx, m.PhotographerID); err == nil {
				m.Photographer = &models.PhotographerSummary{Name: p.Name, Email: p.Email}
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MediaStore) Exists(_ context.Context, kind models.MediaKind, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, m := range s.items[kind] {
		if m.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *MediaStore) Count(kind models.MediaKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items[kind])
}

type ReviewStore struct {
	mu      sync.Mutex
	clock   clock
	reviews []models.Review
	Err     error
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{}
}

func (s *ReviewStore) Create(_ context.Context, review models.Review) (models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Review{}, s.Err
	}
	review.ID = len(s.reviews) + 1
	review.CreatedAt = s.clock.tick()
	s.reviews = append(s.reviews, review)
	return review, nil
}

func (s *ReviewStore) List(_ context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.Review, 0)
	for _, r := range s.reviews {
		switch {
		case filter.ImageID != nil:
			if r.ImageID == nil || *r.ImageID != *filter.ImageID {
				continue
			}
		case filter.VideoID != nil:
			if r.VideoID == nil || *r.VideoID != *filter.VideoID {
				continue
			}
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ReviewStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reviews)
}

// Upload is one call the Gateway received.
type Upload struct {
	Name     string
	Folder   string
	Resource gateway.ResourceKind
	Data     []byte
}

type Gateway struct {
	mu      sync.Mutex
	Uploads []Upload
	Err     error
	BaseURL string
}

func (g *Gateway) Upload(_ context.Context, file gateway.File, folder string, resource gateway.ResourceKind) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return "", err
	}
	g.Uploads = append(g.Uploads, Upload{Name: file.Name, Folder: folder, Resource: resource, Data: data})

	base := g.BaseURL
	if base == "" {
		base = "https://media.test"
	}
	return base + "/" + folder + "/" + file.Name, nil
}

func (g *Gateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Uploads)
}

type Publisher struct {
	mu     sync.Mutex
	Events []models.FeedEvent
}

func (p *Publisher) Publish(event models.FeedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

func (p *Publisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Events)
}

var ErrStore = errors.New("store unavailable")

package handlers

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studio-backend/internal/metrics"
	"studio-backend/internal/models"
	"studio-backend/internal/utils"
)

const (
	// Events queued per subscriber before it counts as stalled and is dropped.
	feedQueueSize = 16
	// Longest a single write to a subscriber may take.
	feedWriteWait = 10 * time.Second
)

// subscriber is one feed connection. Only its writer goroutine touches conn
// for writing; queue is closed exactly once, by whoever removes it from the hub.
type subscriber struct {
	conn  *websocket.Conn
	queue chan any
}

// FeedHub fans new media and reviews out to live-feed websocket subscribers.
// Publish never waits on a subscriber.
type FeedHub struct {
	// connID -> subscriber
	subs      map[string]*subscriber
	mu        sync.Mutex
	writeWait time.Duration
	log       zerolog.Logger
}

func NewFeedHub(log zerolog.Logger) *FeedHub {
	return &FeedHub{
		subs:      make(map[string]*subscriber),
		writeWait: feedWriteWait,
		log:       log.With().Str("component", "feed-hub").Logger(),
	}
}

// Register adds the connection and returns its outgoing queue, with the
// welcome message already at the front.
func (h *FeedHub) Register(connID string, c *websocket.Conn) <-chan any {
	sub := &subscriber{conn: c, queue: make(chan any, feedQueueSize)}
	sub.queue <- fiber.Map{"event": "connected"}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.subs[connID] = sub
	metrics.FeedSubscribers.Set(float64(len(h.subs)))
	return sub.queue
}

func (h *FeedHub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(connID)
}

func (h *FeedHub) removeLocked(connID string) {
	sub, ok := h.subs[connID]
	if !ok {
		return
	}
	delete(h.subs, connID)
	close(sub.queue)
	metrics.FeedSubscribers.Set(float64(len(h.subs)))
}

// Count returns the number of open subscriptions.
func (h *FeedHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish queues the event for every subscriber. A subscriber whose queue is
// full has stopped reading and is dropped.
func (h *FeedHub) Publish(event models.FeedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		select {
		case sub.queue <- event:
		default:
			h.log.Warn().Str("conn_id", id).Msg("dropping stalled feed subscriber")
			h.removeLocked(id)
		}
	}
}

// writePump drains the queue onto the connection. It closes the connection
// when the queue is closed or a write fails, which ends the read loop.
func (h *FeedHub) writePump(connID string, c *websocket.Conn, queue <-chan any, done chan<- struct{}) {
	defer close(done)
	defer c.Close()

	for payload := range queue {
		if err := utils.SendJSON(c, payload, h.writeWait); err != nil {
			h.log.Debug().Err(err).Str("conn_id", connID).Msg("feed write failed")
			h.Unregister(connID)
			return
		}
	}
}

// WSUpgradeMiddleware rejects plain HTTP requests to websocket routes
func WSUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedHandler subscribes the connection to the hub until the client goes away.
// Client messages are read and discarded.
func FeedHandler(hub *FeedHub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		connID := uuid.New().String()
		queue := hub.Register(connID, c)

		done := make(chan struct{})
		go hub.writePump(connID, c, queue, done)

		// The connection is released when this handler returns, so wait for the writer.
		defer func() {
			hub.Unregister(connID)
			<-done
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					hub.log.Debug().Err(err).Str("conn_id", connID).Msg("feed subscriber closed")
				}
				return
			}
		}
	})
}

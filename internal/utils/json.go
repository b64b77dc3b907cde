package utils

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// SendJSON sends a JSON payload to a WebSocket connection, giving up after
// timeout so a peer that stopped reading cannot block the writer forever.
// Fiber's websocket implementation is not safe for concurrent writes; the
// caller must serialize writes to the same connection.
func SendJSON(c *websocket.Conn, payload interface{}, timeout time.Duration) error {
	if timeout > 0 {
		if err := c.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	return c.WriteJSON(payload)
}

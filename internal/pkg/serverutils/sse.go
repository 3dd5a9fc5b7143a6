package serverutils

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// WriteSSE writes one event frame and flushes it.
func WriteSSE(w *bufio.Writer, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal sse payload: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

// StreamSSE hands the response body to a stream writer that drains events.
// cancel is called when the client disconnects or the stream ends, so the
// producer can abandon in-flight work.
func StreamSSE[T any](ctx *fiber.Ctx, events <-chan T, frame func(T) (string, interface{}), cancel context.CancelFunc) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for ev := range events {
			name, data := frame(ev)
			if err := WriteSSE(w, name, data); err != nil {
				cancel()
				// producer still owns the channel; let it finish
				for range events {
				}
				return
			}
		}
	})
	return nil
}

package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"convert-mastery/internal/domain/dto"
	"convert-mastery/internal/infrastructure/progress"
	consts "convert-mastery/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type ProgressHandler struct {
	hub    *progress.Hub
	logger *zap.Logger
}

func NewProgressHandler(hub *progress.Hub, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		hub:    hub,
		logger: logger,
	}
}

// Progress
//
// @Summary      Stream conversion progress
// @Description  Server-sent events, one `data: {"progress":N}` frame per update. Without job the stream receives every job's progress and replaces any earlier global listener.
// @Tags         Progress
// @Produce      text/event-stream
// @Param        job  query     string  false  "Job id returned by /api/convert-video"
// @Success      200  {object}  dto.ProgressMessage
// @Router       /api/progress [get]
func (h *ProgressHandler) Progress(c *fiber.Ctx) error {
	// The topic outlives the request buffer it was parsed from.
	topic := utils.CopyString(c.Query(consts.QueryJobID))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// Headers go out before the first frame so the client sees the stream open.
	c.Context().Response.ImmediateHeaderFlush = true

	sub := h.hub.Attach(topic)
	conn := c.Context().Conn()
	log := h.logger.With(zap.String("job_id", topic))
	log.Debug("Progress stream opened")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		watcher := watchConn(conn)
		defer func() {
			watcher.stop()
			if h.hub.Detach(sub) {
				log.Info("Client disconnected from progress stream")
			}
		}()

		for {
			select {
			case percent, ok := <-sub.Updates():
				if !ok {
					return
				}
				if err := WriteProgressFrame(w, percent); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
				log.Debug("Sending progress", zap.Int("progress", percent))
			case <-watcher.gone:
				return
			}
		}
	})
	return nil
}

// connWatcher notices a peer closing a connection that carries a streamed
// response. The client sends nothing while it listens, so any read result
// ends the stream.
type connWatcher struct {
	conn net.Conn
	gone chan struct{}
	done chan struct{}
}

func watchConn(conn net.Conn) *connWatcher {
	w := &connWatcher{
		conn: conn,
		gone: make(chan struct{}),
		done: make(chan struct{}),
	}
	if conn == nil {
		close(w.done)
		return w
	}
	_ = conn.SetReadDeadline(time.Time{})
	go func() {
		defer close(w.done)
		var b [1]byte
		_, _ = conn.Read(b[:])
		close(w.gone)
	}()
	return w
}

// stop releases the pending read and hands the connection back to the server.
func (w *connWatcher) stop() {
	if w.conn == nil {
		return
	}
	_ = w.conn.SetReadDeadline(time.Now())
	<-w.done
	_ = w.conn.SetReadDeadline(time.Time{})
}

// WriteProgressFrame writes one server-sent event carrying percent.
func WriteProgressFrame(w io.Writer, percent int) error {
	payload, err := json.Marshal(dto.ProgressMessage{Progress: percent})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

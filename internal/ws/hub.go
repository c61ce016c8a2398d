package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var activeStreams = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "postreview_review_streams_active",
	Help: "Number of open review stream connections.",
})

func init() {
	prometheus.MustRegister(activeStreams)
}

// stream is one review stream connection. Messages queued on send are
// written in order by writePump.
type stream struct {
	id     string
	conn   *websocket.Conn
	send   chan Message
	logger *zap.Logger
}

// Hub tracks open review streams so they can be closed on shutdown.
type Hub struct {
	mu      sync.RWMutex
	streams map[*stream]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		streams: make(map[*stream]struct{}),
		logger:  logger,
	}
}

// Register adds a stream to the hub.
func (h *Hub) Register(s *stream) {
	h.mu.Lock()
	h.streams[s] = struct{}{}
	h.mu.Unlock()
	activeStreams.Inc()
	h.logger.Debug("review stream opened", zap.String("stream_id", s.id))
}

// Unregister removes a stream from the hub.
func (h *Hub) Unregister(s *stream) {
	h.mu.Lock()
	_, ok := h.streams[s]
	delete(h.streams, s)
	h.mu.Unlock()
	if ok {
		activeStreams.Dec()
		h.logger.Debug("review stream closed", zap.String("stream_id", s.id))
	}
}

// Count returns the number of open streams.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams)
}

// CloseAll closes every open stream with a going-away status. Used on
// shutdown, since hijacked connections outlive http.Server.Shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.streams))
	for s := range h.streams {
		if s.conn != nil {
			conns = append(conns, s.conn)
		}
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// enqueue queues msg for writing unless ctx ends first.
func (s *stream) enqueue(ctx context.Context, msg Message) {
	select {
	case s.send <- msg:
	case <-ctx.Done():
	}
}

// writePump writes queued messages until send is closed or a write fails.
// Remaining messages are drained so enqueue never blocks on a dead
// connection.
func (s *stream) writePump(ctx context.Context) {
	for msg := range s.send {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := wsjson.Write(writeCtx, s.conn, msg)
		cancel()
		if err != nil {
			s.logger.Debug("websocket write error", zap.String("stream_id", s.id), zap.Error(err))
			for range s.send {
			}
			return
		}
	}
}

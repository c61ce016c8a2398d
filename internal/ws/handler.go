// Package ws serves the review stream: a WebSocket endpoint that runs one
// review per connection and reports stage progress before the result.
package ws

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/HerbHall/postreview/internal/review"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestReadTimeout bounds how long a new connection may take to send its
// review request.
const requestReadTimeout = 30 * time.Second

// StreamReviewer runs a review while reporting stage transitions.
// *review.Pipeline implements it.
type StreamReviewer interface {
	ReviewWithProgress(ctx context.Context, req review.Request, progress review.ProgressFunc) (*review.Result, error)
}

// Handler provides the review stream endpoint.
type Handler struct {
	reviewer StreamReviewer
	hub      *Hub
	origins  []string
	logger   *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a review stream handler. origins are the allowed
// browser origins, as configured for CORS; "*" allows any origin.
func NewHandler(reviewer StreamReviewer, origins []string, logger *zap.Logger) *Handler {
	return &Handler{
		reviewer: reviewer,
		hub:      NewHub(logger),
		origins:  originPatterns(origins),
		logger:   logger,
	}
}

// originPatterns reduces origins such as "https://example.com" to the host
// patterns websocket.Accept matches against.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		out = append(out, o)
	}
	return out
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/review/stream", h.handleReviewStream)
}

// Close closes all open streams.
func (h *Handler) Close() {
	h.hub.CloseAll()
}

// handleReviewStream upgrades the connection, reads one review request,
// streams stage progress and finishes with the result or an error.
func (h *Handler) handleReviewStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     h.origins,
		InsecureSkipVerify: slices.Contains(h.origins, "*"),
	})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(review.MaxBodyBytes)

	s := &stream{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan Message, 16),
		logger: h.logger,
	}
	h.hub.Register(s)
	defer h.hub.Unregister(s)

	ctx := r.Context()
	req, err := h.readRequest(ctx, conn)
	if err != nil {
		var ce websocket.CloseError
		if errors.As(err, &ce) || errors.Is(err, context.Canceled) {
			return
		}
		h.logger.Debug("invalid review stream request", zap.String("stream_id", s.id), zap.Error(err))
		_ = conn.Close(websocket.StatusUnsupportedData, "invalid review request")
		return
	}

	// Cancelled when the client closes the connection.
	ctx = conn.CloseRead(ctx)

	done := make(chan struct{})
	go func() {
		s.writePump(ctx)
		close(done)
	}()

	result, err := h.reviewer.ReviewWithProgress(ctx, req, func(stage review.Stage, status review.Status) {
		s.enqueue(ctx, s.message(MessageReviewStage, StageData{Stage: stage, Status: status}))
	})
	if err != nil {
		data := ErrorData{Status: review.StatusCode(err), Error: review.ErrorDetail(err)}
		var pe *review.PipelineError
		if errors.As(err, &pe) {
			data.Stage = pe.Stage
		}
		s.enqueue(ctx, s.message(MessageReviewError, data))
	} else {
		s.enqueue(ctx, s.message(MessageReviewCompleted, result.Response()))
	}

	close(s.send)
	<-done
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

// readRequest reads the single review request message of a stream.
func (h *Handler) readRequest(ctx context.Context, conn *websocket.Conn) (review.Request, error) {
	readCtx, cancel := context.WithTimeout(ctx, requestReadTimeout)
	defer cancel()

	_, data, err := conn.Read(readCtx)
	if err != nil {
		return review.Request{}, err
	}
	return review.DecodeRequest(bytes.NewReader(data))
}

func (s *stream) message(t MessageType, data any) Message {
	return Message{
		Type:      t,
		StreamID:  s.id,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

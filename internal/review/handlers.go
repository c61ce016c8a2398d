package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/HerbHall/postreview/internal/platform"
	"github.com/HerbHall/postreview/internal/server"
	"go.uber.org/zap"
)

// MaxBodyBytes caps the size of a review request body.
const MaxBodyBytes = 64 << 10

// Reviewer runs reviews. *Pipeline implements it.
type Reviewer interface {
	Review(ctx context.Context, req Request) (*Result, error)
}

// Handler serves the review HTTP API.
type Handler struct {
	reviewer Reviewer
	logger   *zap.Logger
}

// NewHandler creates a review handler.
func NewHandler(reviewer Reviewer, logger *zap.Logger) *Handler {
	return &Handler{reviewer: reviewer, logger: logger}
}

// RegisterRoutes registers the review routes on mux. POST /review is the
// unversioned path used by the original web client.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /review", h.handleReview)
	mux.HandleFunc("POST /api/v1/review", h.handleReview)
	mux.HandleFunc("GET /api/v1/platforms", h.handlePlatforms)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeReviewError writes the problem response for a failed review.
func writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail(err)
	switch StatusCode(err) {
	case http.StatusGatewayTimeout:
		server.GatewayTimeout(w, detail, r.URL.Path)
	case http.StatusBadGateway:
		server.BadGateway(w, detail, r.URL.Path)
	default:
		server.InternalError(w, detail, r.URL.Path)
	}
}

// DecodeRequest reads a review request from r. An empty body is a valid
// request with empty fields.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return Request{}, err
	}
	return req, nil
}

// StatusClientClosedRequest is recorded when the client goes away before
// the review finishes.
const StatusClientClosedRequest = 499

// StatusCode maps a review error to an HTTP status: 504 when the provider
// timed out, 499 when the caller cancelled, 502 for any other stage failure,
// 500 otherwise.
func StatusCode(err error) int {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	if pe.Cancelled() {
		return StatusClientClosedRequest
	}
	if pe.Timeout() {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// ErrorDetail describes a review error without echoing generated text.
func ErrorDetail(err error) string {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return "review failed"
	}
	if pe.Cancelled() {
		return fmt.Sprintf("%s stage cancelled", pe.Stage)
	}
	return fmt.Sprintf("%s stage failed: %s", pe.Stage, pe.Code())
}

// handleReview reviews a post.
//
//	@Summary		Review post
//	@Description	Classify the tone of a post, look up its platform limits, and generate improvement suggestions and a revised post.
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Request		false	"Post to review"
//	@Success		200		{object}	Response
//	@Failure		400		{object}	server.Problem
//	@Failure		413		{object}	server.Problem
//	@Failure		502		{object}	server.Problem
//	@Failure		504		{object}	server.Problem
//	@Router			/review [post]
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.WriteProblem(w, server.Problem{
				Type:     server.ProblemTypeBadRequest,
				Title:    "Request Entity Too Large",
				Status:   http.StatusRequestEntityTooLarge,
				Detail:   fmt.Sprintf("request body exceeds %d bytes", MaxBodyBytes),
				Instance: r.URL.Path,
			})
			return
		}
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}

	result, err := h.reviewer.Review(r.Context(), req)
	if errors.Is(err, context.Canceled) {
		h.logger.Debug("client went away before review finished",
			zap.String("request_id", server.RequestID(r.Context())),
		)
		w.WriteHeader(StatusClientClosedRequest)
		return
	}
	if err != nil {
		h.logger.Warn("review request failed",
			zap.String("request_id", server.RequestID(r.Context())),
			zap.Error(err),
		)
		writeReviewError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePlatforms lists the known platform limits.
//
//	@Summary		List platforms
//	@Description	Returns the posting limits of every known platform, sorted by name.
//	@Tags			review
//	@Produce		json
//	@Success		200	{array}	platform.Platform
//	@Router			/platforms [get]
func (h *Handler) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, platform.All())
}

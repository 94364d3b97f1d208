package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quillardco/sensei/pkg/assist"
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/storage"
)

// HistoryResponse contains the recent turns for a session, newest first.
type HistoryResponse struct {
	UserID    string          `json:"userId"`
	SessionID string          `json:"sessionId"`
	Count     int             `json:"count"`
	Turns     []*storage.Turn `json:"turns"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAssist handles POST /v1/assist requests.
// The body is the assist request: {"userId": ..., "sessionId": ..., "input": ...}.
// The response is the classified envelope. User-visible error messages stay
// generic; diagnostic detail goes to the logger.
func (s *Server) handleAssist(c *fiber.Ctx) error {
	var req assist.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "request body must be a JSON object"})
	}

	envelope, err := s.service.Assist(c.Context(), req)
	if err != nil {
		return s.assistError(c, err)
	}

	return c.JSON(envelope)
}

// assistError maps the orchestrator's error taxonomy onto HTTP statuses.
func (s *Server) assistError(c *fiber.Ctx, err error) error {
	var validation assist.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{
			Error:  "invalid request",
			Fields: validation.Fields,
		})
	}

	var unavailable storage.UnavailableError
	if errors.As(err, &unavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{Error: "conversation history is unavailable"})
	}

	var upstream assist.UpstreamError
	if errors.As(err, &upstream) {
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "model backend is unavailable"})
	}

	s.logger.Error("assist failed with unexpected error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
}

// handleHistory handles GET /v1/history requests.
// Query parameters:
//   - userId (required)
//   - sessionId (required)
//   - limit (optional, default 5): number of most recent turns to return
func (s *Server) handleHistory(c *fiber.Ctx) error {
	userID := c.Query("userId")
	sessionID := c.Query("sessionId")
	if userID == "" || sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{
			Error: "userId and sessionId query parameters are required",
		})
	}

	limit := assist.DefaultWindow
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{
				Error: "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	turns, err := s.storer.FetchRecent(c.Context(), userID, sessionID, limit)
	if err != nil {
		s.logger.Error("history fetch failed",
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{Error: "conversation history is unavailable"})
	}

	if turns == nil {
		turns = []*storage.Turn{}
	}

	return c.JSON(HistoryResponse{
		UserID:    userID,
		SessionID: sessionID,
		Count:     len(turns),
		Turns:     turns,
	})
}

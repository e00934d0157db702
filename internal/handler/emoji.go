package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emoji-explainer/internal/provider"
	"github.com/iliyamo/emoji-explainer/internal/service"
	"github.com/iliyamo/emoji-explainer/internal/utils"
)

// EmojiHandler bundles dependencies for the emoji endpoints.
type EmojiHandler struct {
	Explainer *service.Explainer
}

func NewEmojiHandler(e *service.Explainer) *EmojiHandler {
	return &EmojiHandler{Explainer: e}
}

// ----- DTOs -----

type emojiReq struct {
	Emoji string `json:"emoji"`
}

type explainResp struct {
	Emoji       string `json:"emoji"`
	Explanation string `json:"explanation"`
}

type receiveResp struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

// symbolFrom accepts the emoji from the JSON body or, as a fallback, the
// `emoji` query parameter.
func symbolFrom(c echo.Context) string {
	var req emojiReq
	_ = c.Bind(&req)
	s := strings.TrimSpace(req.Emoji)
	if s == "" {
		s = strings.TrimSpace(c.QueryParam("emoji"))
	}
	return s
}

// Explain handles POST /emoji/explain: validate the symbol, run the
// read-through cache, answer with the emoji and its explanation.
func (h *EmojiHandler) Explain(c echo.Context) error {
	symbol := symbolFrom(c)
	if !utils.IsEmoji(symbol) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "emoji must be a single emoji character"})
	}

	// The provider call can take a while; allow more than the usual DB budget.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	text, err := h.Explainer.Explain(ctx, symbol)
	if err != nil {
		return explainError(c, err)
	}
	return c.JSON(http.StatusOK, explainResp{Emoji: symbol, Explanation: text})
}

// Receive handles POST /api/emoji/receive: validate the symbol and report
// the outcome.  A valid emoji is explained through the same cache; the
// response carries the explanation (or a failure note) in `message`.
func (h *EmojiHandler) Receive(c echo.Context) error {
	symbol := symbolFrom(c)
	if !utils.IsEmoji(symbol) {
		return c.JSON(http.StatusOK, receiveResp{
			IsValid: false,
			Message: fmt.Sprintf("%s is not a valid emoji.", symbol),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 35*time.Second)
	defer cancel()

	text, err := h.Explainer.Explain(ctx, symbol)
	if err != nil {
		return c.JSON(http.StatusOK, receiveResp{
			IsValid: false,
			Message: "Failed to fetch explanation for the submitted emoji.",
		})
	}
	return c.JSON(http.StatusOK, receiveResp{IsValid: true, Message: text})
}

// Status handles GET /api/emoji/status: a static heartbeat for monitoring.
func (h *EmojiHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "Service is operational"})
}

// explainError maps explanation failures onto HTTP statuses: provider
// outages are upstream failures, a well-formed answer without text is a
// 404-ish "nothing to say", anything else is internal.
func explainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, provider.ErrNoExplanation):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no explanation available"})
	case errors.Is(err, provider.ErrUnavailable):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "explanation provider unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "explain failed"})
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/integrity-backend/internal/http/response"
	"github.com/yungbote/integrity-backend/internal/services"
)

type ContentHandler struct {
	content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// GET /content/games
func (h *ContentHandler) ListGames(c *gin.Context) {
	response.RespondOK(c, gin.H{"games": h.content.Games()})
}

// GET /content/badges
func (h *ContentHandler) ListBadges(c *gin.Context) {
	response.RespondOK(c, gin.H{"badges": h.content.Badges()})
}

// GET /content/quiz?category=conflict-of-interest&n=5
func (h *ContentHandler) GetQuiz(c *gin.Context) {
	n, ok := countParam(c)
	if !ok {
		return
	}
	questions, err := h.content.Quiz(c.Query("category"), n)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// GET /content/whistleblower?n=3
func (h *ContentHandler) GetWhistleblowerCases(c *gin.Context) {
	n, ok := countParam(c)
	if !ok {
		return
	}
	cases, err := h.content.WhistleblowerCases(n)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"cases": cases})
}

// GET /content/scenarios
func (h *ContentHandler) GetScenarios(c *gin.Context) {
	response.RespondOK(c, gin.H{"scenarios": h.content.Scenarios()})
}

// countParam reads the optional n query parameter; zero means everything.
func countParam(c *gin.Context) (int, bool) {
	raw := c.Query("n")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("n must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

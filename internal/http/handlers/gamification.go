package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/http/response"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/badges"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/services"
)

type GamificationHandler struct {
	log *logger.Logger
	svc services.GamificationService
}

func NewGamificationHandler(log *logger.Logger, svc services.GamificationService) *GamificationHandler {
	return &GamificationHandler{log: log.With("handler", "GamificationHandler"), svc: svc}
}

type completeGameRequest struct {
	Points *int `json:"points" binding:"required"`
}

type sessionRequest struct {
	Points  *int                  `json:"points" binding:"required"`
	Outcome badges.SessionOutcome `json:"outcome"`
}

// GET /gamification/overview
func (h *GamificationHandler) GetOverview(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"overview": ov})
}

// POST /gamification/games/:gameId/complete
// body: { "points": 120 }
func (h *GamificationHandler) CompleteGame(c *gin.Context) {
	var req completeGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	up, err := h.svc.CompleteGame(c.Request.Context(), types.GameID(c.Param("gameId")), *req.Points)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"update": up})
}

// POST /gamification/games/:gameId/session
// body: { "points": 80, "outcome": { "hotspots_found": 8, "hotspots_total": 10 } }
func (h *GamificationHandler) RecordSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	up, err := h.svc.RecordSession(c.Request.Context(), types.GameID(c.Param("gameId")), *req.Points, req.Outcome)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"update": up})
}

// POST /gamification/badges/:badgeId/unlock
func (h *GamificationHandler) UnlockBadge(c *gin.Context) {
	up, err := h.svc.UnlockBadge(c.Request.Context(), types.BadgeID(c.Param("badgeId")))
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"update": up})
}

// GET /gamification/ranking
func (h *GamificationHandler) GetRanking(c *gin.Context) {
	view, err := h.svc.Ranking(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"ranking": view})
}

// GET /gamification/sync
func (h *GamificationHandler) GetSyncStatus(c *gin.Context) {
	status, err := h.svc.SyncStatus(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"sync": status})
}

// POST /gamification/reload
// A partial reload still answers with the state it has, plus the load error.
func (h *GamificationHandler) Reload(c *gin.Context) {
	ov, err := h.svc.Reload(c.Request.Context())
	if ov == nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	if err != nil {
		h.log.Warn("Partial reload", "error", err)
		response.RespondOK(c, gin.H{"overview": ov, "warning": err.Error()})
		return
	}
	response.RespondOK(c, gin.H{"overview": ov})
}

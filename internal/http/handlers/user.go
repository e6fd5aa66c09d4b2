package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/integrity-backend/internal/http/response"
	"github.com/yungbote/integrity-backend/internal/services"
)

type UserHandler struct {
	identity services.IdentityService
}

func NewUserHandler(identity services.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.identity.CurrentUser(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/integrity-backend/internal/modules/gamification/store"
	"github.com/yungbote/integrity-backend/internal/platform/apierr"
	"github.com/yungbote/integrity-backend/internal/services"
)

// toAPIError maps service and store sentinels onto HTTP errors.
func toAPIError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotAuthenticated):
		return apierr.Unauthorized(err)
	case errors.Is(err, services.ErrUnknownUser):
		return apierr.NotFound("user_not_found", err)
	case errors.Is(err, store.ErrUnknownGame):
		return apierr.BadRequest("unknown_game", err)
	case errors.Is(err, store.ErrUnknownBadge):
		return apierr.BadRequest("unknown_badge", err)
	case errors.Is(err, store.ErrNegativePoints), errors.Is(err, store.ErrPointsOutOfRange):
		return apierr.BadRequest("invalid_points", err)
	case errors.Is(err, services.ErrUnknownCategory):
		return apierr.BadRequest("unknown_category", err)
	case errors.Is(err, store.ErrSessionClosed):
		return apierr.New(http.StatusServiceUnavailable, "shutting_down", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "timeout", err)
	}
	return err
}

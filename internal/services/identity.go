package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/integrity-backend/internal/data/repos"
	"github.com/yungbote/integrity-backend/internal/platform/ctxutil"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownUser      = errors.New("user not found")
)

// Identity is what the rest of the product knows about the signed-in user.
type Identity struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref,omitempty"`
	Department  string    `json:"department,omitempty"`
	Category    string    `json:"category"`
}

type IdentityService interface {
	CurrentUser(ctx context.Context) (*Identity, error)
}

type identityService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.UserProfileRepo
}

func NewIdentityService(log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.UserProfileRepo) IdentityService {
	return &identityService{
		log:         log.With("service", "IdentityService"),
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *identityService) CurrentUser(ctx context.Context) (*Identity, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	dbc := dbctx.Of(ctx)
	users, err := s.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUnknownUser
	}
	u := users[0]
	id := &Identity{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Department:  u.Department,
		Category:    u.Category,
	}
	profile, err := s.profileRepo.GetByUserID(dbc, userID)
	if err != nil {
		// the avatar is cosmetic
		s.log.Warn("Profile lookup failed", "user_id", userID, "error", err)
	} else if profile != nil {
		id.AvatarRef = profile.AvatarURL
	}
	return id, nil
}

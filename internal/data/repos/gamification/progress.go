package gamification

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/integrity-backend/internal/domain"
	gdomain "github.com/yungbote/integrity-backend/internal/domain/gamification"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

type ProgressRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserProgress, error)
	GetState(dbc dbctx.Context, userID uuid.UUID) (*types.AggregateState, error)
	Upsert(dbc dbctx.Context, userID uuid.UUID, state types.AggregateState) error
	ApplyScore(dbc dbctx.Context, userID uuid.UUID, ev types.ScoreEvent, unlocked []types.BadgeID) error
	UnlockBadges(dbc dbctx.Context, userID uuid.UUID, ids []types.BadgeID, at time.Time) error
	TotalScores(dbc dbctx.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{
		db:  db,
		log: baseLog.With("repo", "ProgressRepo"),
	}
}

// Get returns (nil, nil) when the user has no progress row.
func (r *progressRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserProgress, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserProgress
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetState decodes the stored row. An unreadable payload is reported with an error
// wrapping gdomain.ErrMalformedState.
func (r *progressRepo) GetState(dbc dbctx.Context, userID uuid.UUID) (*types.AggregateState, error) {
	row, err := r.Get(dbc, userID)
	if err != nil || row == nil {
		return nil, err
	}
	state, err := row.Decode()
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return &state, nil
}

// Upsert overwrites the row with a full state.
func (r *progressRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, state types.AggregateState) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	row, err := gdomain.EncodeState(userID, state)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	row.Version = 1
	row.CreatedAt = now
	row.UpdatedAt = now
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_score":     row.TotalScore,
				"integrity_level": row.IntegrityLevel,
				"games_progress":  row.GamesProgress,
				"badges":          row.Badges,
				"version":         gorm.Expr("user_progress.version + 1"),
				"updated_at":      now,
			}),
		}).
		Create(row).Error
}

// ApplyScore adds one completion to the stored state under a row lock, so concurrent
// writers for the same user never lose an increment.
func (r *progressRepo) ApplyScore(dbc dbctx.Context, userID uuid.UUID, ev types.ScoreEvent, unlocked []types.BadgeID) error {
	if !ev.GameID.Valid() {
		return fmt.Errorf("apply score: unknown game %q", ev.GameID)
	}
	if err := gdomain.ValidatePoints(ev.Points); err != nil {
		return fmt.Errorf("apply score: %w", err)
	}
	return r.mutate(dbc, userID, func(s *types.AggregateState) {
		s.ApplyCompletion(ev)
		for _, id := range unlocked {
			s.Unlock(id, ev.At)
		}
	})
}

// UnlockBadges unions ids into the stored badges.
func (r *progressRepo) UnlockBadges(dbc dbctx.Context, userID uuid.UUID, ids []types.BadgeID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.mutate(dbc, userID, func(s *types.AggregateState) {
		for _, id := range ids {
			s.Unlock(id, at)
		}
	})
}

func (r *progressRepo) mutate(dbc dbctx.Context, userID uuid.UUID, apply func(*types.AggregateState)) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		now := time.Now().UTC()
		zero, err := gdomain.EncodeState(userID, gdomain.NewAggregateState())
		if err != nil {
			return err
		}
		zero.CreatedAt = now
		zero.UpdatedAt = now
		if err := txx.Clauses(clause.OnConflict{DoNothing: true}).Create(zero).Error; err != nil {
			return fmt.Errorf("ensure progress row: %w", err)
		}

		q := txx.Where("user_id = ?", userID)
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var row types.UserProgress
		if err := q.Take(&row).Error; err != nil {
			return fmt.Errorf("lock progress row: %w", err)
		}

		state, err := row.Decode()
		if err != nil {
			if !errors.Is(err, gdomain.ErrMalformedState) {
				return err
			}
			state = row.Salvage()
			r.log.Warn("Stored progress unreadable, rebuilding from salvaged row", "user_id", userID, "total_score", state.TotalScore, "error", err)
		}
		apply(&state)

		next, err := gdomain.EncodeState(userID, state)
		if err != nil {
			return err
		}
		return txx.Model(&types.UserProgress{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_score":     next.TotalScore,
				"integrity_level": next.IntegrityLevel,
				"games_progress":  next.GamesProgress,
				"badges":          next.Badges,
				"version":         row.Version + 1,
				"updated_at":      now,
			}).Error
	})
}

// TotalScores reads the totals of many users at once. Users without a row are absent
// from the result.
func (r *progressRepo) TotalScores(dbc dbctx.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		UserID     uuid.UUID
		TotalScore int
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.UserProgress{}).
		Select("user_id", "total_score").
		Where("user_id IN ?", userIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.TotalScore
	}
	return out, nil
}

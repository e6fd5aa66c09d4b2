package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/integrity-backend/internal/data/repos"
	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/badges"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/ranking"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/store"
	"github.com/yungbote/integrity-backend/internal/observability"
	"github.com/yungbote/integrity-backend/internal/platform/ctxutil"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

type Overview struct {
	store.Snapshot
	Sync store.SyncStatus `json:"sync"`
}

type RankingView struct {
	Players  []types.RankingPlayer `json:"players"`
	Position int                   `json:"position"`
}

type GamificationConfig struct {
	// Categories of the directory left out of the ranking.
	ExcludedCategories []string
	SyncTimeout        time.Duration
	// Sessions unused for longer than SessionIdleTTL are flushed and dropped by
	// RunIdleEviction. Zero keeps them until Close.
	SessionIdleTTL time.Duration
	Metrics        *observability.Metrics
}

type GamificationService interface {
	Overview(ctx context.Context) (*Overview, error)
	CompleteGame(ctx context.Context, gameID types.GameID, points int) (*store.Update, error)
	RecordSession(ctx context.Context, gameID types.GameID, points int, outcome badges.SessionOutcome) (*store.Update, error)
	UnlockBadge(ctx context.Context, badgeID types.BadgeID) (*store.Update, error)
	Ranking(ctx context.Context) (*RankingView, error)
	SyncStatus(ctx context.Context) (store.SyncStatus, error)
	Reload(ctx context.Context) (*Overview, error)
	RunIdleEviction(ctx context.Context, interval time.Duration)
	Close(ctx context.Context) error
}

// sessionEntry is one user's slot in the registry. inflight, lastUsed and closing are
// guarded by gamificationService.mu.
type sessionEntry struct {
	once    sync.Once
	session *store.Session
	err     error

	inflight int
	lastUsed time.Time
	// closing is set while an idle eviction flushes the session; it is closed when done.
	closing chan struct{}
}

type gamificationService struct {
	log      *logger.Logger
	cfg      GamificationConfig
	deps     store.Deps
	notifier GamificationNotifier

	now      func() time.Time
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

func NewGamificationService(
	log *logger.Logger,
	cfg GamificationConfig,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	progressRepo repos.ProgressRepo,
	notifier GamificationNotifier,
) GamificationService {
	progress := progressStore{repo: progressRepo}
	dir := directory{userRepo: userRepo, excluded: cfg.ExcludedCategories}
	deps := store.Deps{
		Progress:  progress,
		Directory: dir,
		Profiles:  profileStore{repo: profileRepo},
		Ranking:   ranking.Aggregator{Roster: dir, Scores: progress},
	}
	return newGamificationService(log, cfg, deps, notifier)
}

func newGamificationService(log *logger.Logger, cfg GamificationConfig, deps store.Deps, notifier GamificationNotifier) *gamificationService {
	return &gamificationService{
		log:      log.With("service", "GamificationService"),
		cfg:      cfg,
		deps:     deps,
		notifier: notifier,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*sessionEntry),
	}
}

// acquire returns the caller's session, creating and loading it on first use. The
// session is not evicted until release is called.
func (s *gamificationService) acquire(ctx context.Context) (*store.Session, func(), error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, nil, ErrNotAuthenticated
	}

	var entry *sessionEntry
	for entry == nil {
		s.mu.Lock()
		e, ok := s.sessions[userID]
		if ok && e.closing != nil {
			// an eviction is flushing; reopening before it ends could read stale state
			closing := e.closing
			s.mu.Unlock()
			select {
			case <-closing:
				continue
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}
		if !ok {
			e = &sessionEntry{}
			s.sessions[userID] = e
		}
		e.inflight++
		e.lastUsed = s.now()
		s.mu.Unlock()
		entry = e
	}

	release := func() {
		s.mu.Lock()
		entry.inflight--
		entry.lastUsed = s.now()
		s.mu.Unlock()
	}

	entry.once.Do(func() {
		entry.session, entry.err = s.openSession(ctx, userID)
	})
	if entry.err != nil {
		release()
		s.mu.Lock()
		if s.sessions[userID] == entry {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return nil, nil, entry.err
	}
	return entry.session, release, nil
}

func (s *gamificationService) openSession(ctx context.Context, userID uuid.UUID) (*store.Session, error) {
	metrics := s.cfg.Metrics
	opts := []store.Option{
		store.WithLogger(s.log),
		store.WithSyncTimeout(s.cfg.SyncTimeout),
		store.WithOnSync(func(id uuid.UUID, status store.SyncStatus) {
			metrics.ObserveSync(string(status.State))
			if s.notifier != nil {
				s.notifier.Synced(id, status)
			}
		}),
		store.WithOnRanking(func(id uuid.UUID, players []types.RankingPlayer) {
			metrics.ObserveRankingRefresh(nil)
			if s.notifier != nil {
				s.notifier.RankingChanged(id, players)
			}
		}),
	}
	sess := store.NewSession(userID, s.deps, opts...)

	if err := sess.LoadUserData(ctx); err != nil {
		if errors.Is(err, store.ErrUnknownUser) {
			return nil, ErrUnknownUser
		}
		// partial loads keep whatever did arrive; Reload retries
		s.log.Warn("Session opened with incomplete data", "user_id", userID, "error", err)
	}
	if err := sess.RefreshRanking(ctx); err != nil {
		s.cfg.Metrics.ObserveRankingRefresh(err)
		s.log.Warn("Initial ranking unavailable", "user_id", userID, "error", err)
	}
	return sess, nil
}

func (s *gamificationService) Overview(ctx context.Context) (*Overview, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return &Overview{Snapshot: sess.Snapshot(), Sync: sess.SyncStatus()}, nil
}

func (s *gamificationService) CompleteGame(ctx context.Context, gameID types.GameID, points int) (*store.Update, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	up, err := sess.UpdateScore(ctx, gameID, points)
	if err != nil {
		return nil, err
	}
	s.cfg.Metrics.IncGameCompletion(string(gameID))
	s.notifyProgress(sess.UserID(), up)
	return &up, nil
}

// RecordSession scores a finished game session and unlocks the badges its outcome earns.
func (s *gamificationService) RecordSession(ctx context.Context, gameID types.GameID, points int, outcome badges.SessionOutcome) (*store.Update, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	up, err := sess.UpdateScore(ctx, gameID, points)
	if err != nil {
		return nil, err
	}
	s.cfg.Metrics.IncGameCompletion(string(gameID))
	for _, id := range badges.EvaluateSession(gameID, outcome, up.Snapshot.State) {
		badgeUp, err := sess.UnlockBadge(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("unlock %s: %w", id, err)
		}
		up.Snapshot = badgeUp.Snapshot
		up.Unlocked = append(up.Unlocked, badgeUp.Unlocked...)
	}
	s.notifyProgress(sess.UserID(), up)
	return &up, nil
}

func (s *gamificationService) UnlockBadge(ctx context.Context, badgeID types.BadgeID) (*store.Update, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	up, err := sess.UnlockBadge(ctx, badgeID)
	if err != nil {
		return nil, err
	}
	if len(up.Unlocked) > 0 {
		s.notifyProgress(sess.UserID(), up)
	}
	return &up, nil
}

func (s *gamificationService) Ranking(ctx context.Context) (*RankingView, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return &RankingView{Players: sess.Ranking(), Position: sess.RankingPosition()}, nil
}

func (s *gamificationService) SyncStatus(ctx context.Context) (store.SyncStatus, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return store.SyncStatus{}, err
	}
	defer release()
	return sess.SyncStatus(), nil
}

// Reload waits for pending writes, then replaces the session state with the stored one.
func (s *gamificationService) Reload(ctx context.Context) (*Overview, error) {
	sess, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	if err := sess.Flush(ctx); err != nil {
		return nil, err
	}
	loadErr := sess.LoadUserData(ctx)
	if err := sess.RefreshRanking(ctx); err != nil {
		loadErr = errors.Join(loadErr, err)
	}
	return &Overview{Snapshot: sess.Snapshot(), Sync: sess.SyncStatus()}, loadErr
}

// RunIdleEviction drops idle sessions every interval until ctx is done. It returns at
// once when no idle TTL is configured.
func (s *gamificationService) RunIdleEviction(ctx context.Context, interval time.Duration) {
	if s.cfg.SessionIdleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = s.cfg.SessionIdleTTL / 2
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.evictIdle(ctx); n > 0 {
				s.log.Debug("Evicted idle sessions", "count", n)
			}
		}
	}
}

// evictIdle flushes and drops sessions nobody has used for SessionIdleTTL. Sessions in
// use are skipped. A later request opens a fresh session from the stored state.
func (s *gamificationService) evictIdle(ctx context.Context) int {
	if s.cfg.SessionIdleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.SessionIdleTTL)

	s.mu.Lock()
	victims := make(map[uuid.UUID]*sessionEntry)
	for id, e := range s.sessions {
		if e.closing != nil || e.inflight > 0 || e.lastUsed.After(cutoff) {
			continue
		}
		e.closing = make(chan struct{})
		victims[id] = e
	}
	s.mu.Unlock()

	for id, e := range victims {
		e.once.Do(func() {})
		if e.session != nil {
			if err := e.session.Close(ctx); err != nil {
				s.log.Warn("Idle session flush incomplete", "user_id", id, "error", err)
			}
		}
		s.mu.Lock()
		if s.sessions[id] == e {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		close(e.closing)
	}
	return len(victims)
}

// Close flushes every open session.
func (s *gamificationService) Close(ctx context.Context) error {
	s.mu.Lock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	var evicting []chan struct{}
	for _, e := range s.sessions {
		if e.closing != nil {
			evicting = append(evicting, e.closing)
			continue
		}
		entries = append(entries, e)
	}
	s.sessions = make(map[uuid.UUID]*sessionEntry)
	s.mu.Unlock()

	var errs []error
	for _, ch := range evicting {
		select {
		case <-ch:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}
	for _, e := range entries {
		// wait for a concurrent open to finish
		e.once.Do(func() {})
		if e.session == nil {
			continue
		}
		if err := e.session.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *gamificationService) notifyProgress(userID uuid.UUID, up store.Update) {
	for _, id := range up.Unlocked {
		s.cfg.Metrics.IncBadgeUnlock(string(id))
	}
	if s.notifier != nil {
		s.notifier.Progress(userID, up)
	}
}

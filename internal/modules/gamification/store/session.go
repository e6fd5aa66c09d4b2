// Package store keeps one user's gamification state for the duration of a session.
//
// Every mutation is applied to the in-memory state first and returned to the caller
// straight away. Persisting the change and recomputing the ranking happen afterwards
// in the background; their outcome is exposed through SyncStatus and never turned into
// an error for the caller.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/integrity-backend/internal/domain/gamification"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/ranking"
	"github.com/yungbote/integrity-backend/internal/platform/ctxutil"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

var (
	ErrUnknownGame      = errors.New("unknown game")
	ErrUnknownBadge     = errors.New("unknown badge")
	ErrNegativePoints   = errors.New("points must not be negative")
	ErrPointsOutOfRange = gamification.ErrPointsOutOfRange
	ErrUnknownUser      = errors.New("user not found in directory")
	ErrSessionClosed    = errors.New("session closed")
)

const defaultSyncTimeout = 10 * time.Second

// Snapshot is a copy of the session state safe to hand out.
type Snapshot struct {
	UserID          uuid.UUID                   `json:"user_id"`
	DisplayName     string                      `json:"display_name"`
	AvatarRef       string                      `json:"avatar_ref,omitempty"`
	State           gamification.AggregateState `json:"state"`
	Level           string                      `json:"level"`
	RankingPosition int                         `json:"ranking_position"`
}

// Update is the local result of a mutation.
type Update struct {
	Snapshot Snapshot               `json:"snapshot"`
	Unlocked []gamification.BadgeID `json:"unlocked"`
}

type Option func(*Session)

func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSyncTimeout bounds each background persistence + ranking round.
func WithSyncTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.syncTimeout = d
		}
	}
}

// WithOnSync registers a callback invoked after every sync attempt.
func WithOnSync(fn func(userID uuid.UUID, status SyncStatus)) Option {
	return func(s *Session) { s.onSync = fn }
}

// WithOnRanking registers a callback invoked whenever the ranking snapshot is replaced.
func WithOnRanking(fn func(userID uuid.UUID, players []gamification.RankingPlayer)) Option {
	return func(s *Session) { s.onRanking = fn }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Session) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

type jobKind int

const (
	jobScore jobKind = iota
	jobBadge
)

type syncJob struct {
	seq      uint64
	kind     jobKind
	event    gamification.ScoreEvent
	unlocked []gamification.BadgeID
	state    gamification.AggregateState
	at       time.Time
}

type Session struct {
	userID      uuid.UUID
	deps        Deps
	log         *logger.Logger
	now         func() time.Time
	tracer      trace.Tracer
	syncTimeout time.Duration
	onSync      func(uuid.UUID, SyncStatus)
	onRanking   func(uuid.UUID, []gamification.RankingPlayer)

	mu           sync.Mutex
	displayName  string
	avatarRef    string
	state        gamification.AggregateState
	players      []gamification.RankingPlayer
	rankingSeq   uint64
	seq          uint64
	persistedSeq uint64
	status       SyncStatus
	closed       bool

	// remote writes go out one at a time
	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func NewSession(userID uuid.UUID, deps Deps, opts ...Option) *Session {
	s := &Session{
		userID:      userID,
		deps:        deps,
		log:         logger.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
		tracer:      otel.Tracer("integrity/gamification/store"),
		syncTimeout: defaultSyncTimeout,
		state:       gamification.NewAggregateState(),
		status:      SyncStatus{State: SyncIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "GamificationSession", "user_id", userID.String())
	return s
}

func (s *Session) UserID() uuid.UUID { return s.userID }

// LoadUserData replaces the local state with the latest remote one. The directory,
// profile and progress reads run concurrently; a failed read leaves its part of the
// local state untouched and is reported in the returned error. A missing progress
// record or an unreadable one resets the state to zero.
func (s *Session) LoadUserData(ctx context.Context) error {
	ctx = ctxutil.Default(ctx)
	ctx, span := s.tracer.Start(ctx, "gamification.LoadUserData")
	defer span.End()

	var (
		member    *gamification.Member
		avatar    string
		remote    *gamification.AggregateState
		dirErr    error
		avatarErr error
		progErr   error
	)
	var g errgroup.Group
	if s.deps.Directory != nil {
		g.Go(func() error {
			member, dirErr = s.deps.Directory.GetMember(ctx, s.userID)
			if dirErr == nil && member == nil {
				dirErr = ErrUnknownUser
			}
			return dirErr
		})
	}
	if s.deps.Profiles != nil {
		g.Go(func() error {
			avatar, avatarErr = s.deps.Profiles.AvatarRef(ctx, s.userID)
			return avatarErr
		})
	}
	if s.deps.Progress != nil {
		g.Go(func() error {
			remote, progErr = s.deps.Progress.Get(ctx, s.userID)
			return progErr
		})
	}
	_ = g.Wait()

	malformed := progErr != nil && errors.Is(progErr, gamification.ErrMalformedState)
	if malformed {
		s.log.Warn("Stored progress unreadable, starting from zero", "error", progErr)
		progErr = nil
		remote = nil
	}

	s.mu.Lock()
	if dirErr == nil && member != nil {
		s.displayName = member.DisplayName
	}
	if avatarErr == nil {
		s.avatarRef = avatar
	}
	if progErr == nil && s.deps.Progress != nil {
		if remote != nil {
			s.state = remote.Clone()
			if err := s.state.Normalize(); err != nil {
				s.log.Warn("Stored progress failed validation, starting from zero", "error", err)
				s.state = gamification.NewAggregateState()
			}
		} else {
			s.state = gamification.NewAggregateState()
		}
	}
	s.mu.Unlock()

	var errs []error
	if dirErr != nil {
		errs = append(errs, fmt.Errorf("directory: %w", dirErr))
	}
	if avatarErr != nil {
		errs = append(errs, fmt.Errorf("profile: %w", avatarErr))
	}
	if progErr != nil {
		errs = append(errs, fmt.Errorf("progress: %w", progErr))
	}
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		s.log.Warn("LoadUserData incomplete", "error", err)
	}
	return err
}

// UpdateScore records one game completion worth points.
func (s *Session) UpdateScore(ctx context.Context, gameID gamification.GameID, points int) (Update, error) {
	if !gameID.Valid() {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownGame, gameID)
	}
	if points < 0 {
		return Update{}, fmt.Errorf("%w: %d", ErrNegativePoints, points)
	}
	if err := gamification.ValidatePoints(points); err != nil {
		return Update{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Update{}, ErrSessionClosed
	}
	ev := gamification.ScoreEvent{GameID: gameID, Points: points, At: s.now()}
	unlocked := s.state.ApplyCompletion(ev)
	job := s.enqueueLocked(syncJob{kind: jobScore, event: ev, unlocked: unlocked, at: ev.At})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug("Score updated", "game_id", gameID, "points", points, "total_score", snap.State.TotalScore, "unlocked", unlocked)
	s.dispatch(ctx, job)
	return Update{Snapshot: snap, Unlocked: unlocked}, nil
}

// UnlockBadge unlocks a badge whose rule was decided by the caller. Unlocking an
// unlocked badge changes nothing and schedules no write.
func (s *Session) UnlockBadge(ctx context.Context, badgeID gamification.BadgeID) (Update, error) {
	if !badgeID.Valid() {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownBadge, badgeID)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Update{}, ErrSessionClosed
	}
	at := s.now()
	var unlocked []gamification.BadgeID
	var job *syncJob
	if s.state.Unlock(badgeID, at) {
		unlocked = []gamification.BadgeID{badgeID}
		job = s.enqueueLocked(syncJob{kind: jobBadge, unlocked: unlocked, at: at})
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if job != nil {
		s.dispatch(ctx, job)
	}
	return Update{Snapshot: snap, Unlocked: unlocked}, nil
}

// RefreshRanking recomputes the ranking snapshot synchronously.
func (s *Session) RefreshRanking(ctx context.Context) error {
	if s.deps.Ranking == nil {
		return nil
	}
	s.mu.Lock()
	seq := s.seq
	s.mu.Unlock()
	players, err := s.deps.Ranking.Compute(ctxutil.Default(ctx))
	if err != nil {
		return fmt.Errorf("compute ranking: %w", err)
	}
	s.replaceRanking(seq, players)
	return nil
}

// RankingPosition is the 1-based rank of this user in the cached snapshot, or
// len(snapshot)+1 when the user is not in it.
func (s *Session) RankingPosition() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ranking.Position(s.players, s.userID)
}

func (s *Session) Ranking() []gamification.RankingPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gamification.RankingPlayer(nil), s.players...)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) SyncStatus() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Flush waits for background syncs started so far.
func (s *Session) Flush(ctx context.Context) error {
	ctx = ctxutil.Default(ctx)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further mutations and waits for pending syncs.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		UserID:          s.userID,
		DisplayName:     s.displayName,
		AvatarRef:       s.avatarRef,
		State:           s.state.Clone(),
		Level:           gamification.LevelTitle(s.state.TotalScore),
		RankingPosition: ranking.Position(s.players, s.userID),
	}
}

// enqueueLocked stamps the job and registers it with the wait group while s.mu is
// held, so Close cannot miss it.
func (s *Session) enqueueLocked(job syncJob) *syncJob {
	s.seq++
	job.seq = s.seq
	job.state = s.state.Clone()
	s.status.begin()
	s.wg.Add(1)
	return &job
}

func (s *Session) dispatch(ctx context.Context, job *syncJob) {
	base := ctxutil.Detach(ctx)
	go func() {
		defer s.wg.Done()
		s.runSync(base, job)
	}()
}

func (s *Session) runSync(base context.Context, job *syncJob) {
	ctx, cancel := context.WithTimeout(base, s.syncTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "gamification.sync", trace.WithAttributes(
		attribute.Int64("gamification.seq", int64(job.seq)),
		attribute.String("gamification.game_id", string(job.event.GameID)),
	))
	defer span.End()

	log := s.log.With(ctxutil.LogFields(ctx)...)
	err := s.persist(ctx, job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		log.Warn("Progress sync failed", "seq", job.seq, "error", err)
	}

	s.mu.Lock()
	s.status.finish(job.seq, s.now(), err)
	status := s.status
	s.mu.Unlock()
	if s.onSync != nil {
		s.onSync(s.userID, status)
	}

	if s.deps.Ranking == nil {
		return
	}
	players, rerr := s.deps.Ranking.Compute(ctx)
	if rerr != nil {
		span.RecordError(rerr)
		log.Warn("Ranking refresh failed", "seq", job.seq, "error", rerr)
		return
	}
	s.replaceRanking(job.seq, players)
}

func (s *Session) persist(ctx context.Context, job *syncJob) error {
	if s.deps.Progress == nil {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if atomicStore, ok := s.deps.Progress.(AtomicProgressStore); ok {
		switch job.kind {
		case jobScore:
			return atomicStore.ApplyScore(ctx, s.userID, job.event, job.unlocked)
		case jobBadge:
			return atomicStore.UnlockBadges(ctx, s.userID, job.unlocked, job.at)
		}
	}

	s.mu.Lock()
	stale := job.seq <= s.persistedSeq
	s.mu.Unlock()
	if stale {
		return nil
	}
	if err := s.deps.Progress.Upsert(ctx, s.userID, job.state); err != nil {
		return err
	}
	s.mu.Lock()
	if job.seq > s.persistedSeq {
		s.persistedSeq = job.seq
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) replaceRanking(seq uint64, players []gamification.RankingPlayer) {
	s.mu.Lock()
	if seq < s.rankingSeq {
		s.mu.Unlock()
		return
	}
	s.rankingSeq = seq
	s.players = append([]gamification.RankingPlayer(nil), players...)
	out := append([]gamification.RankingPlayer(nil), s.players...)
	s.mu.Unlock()
	if s.onRanking != nil {
		s.onRanking(s.userID, out)
	}
}

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/integrity-backend/internal/data/db"
	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/domain/user"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/store"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/realtime"
	"github.com/yungbote/integrity-backend/internal/services"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := LoadConfig(logger.Nop())
	cfg.DB = db.Config{Driver: db.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "integrity.db")}
	cfg.Redis.Addr = ""
	cfg.JWTSecretKey = "app-test"
	cfg.SyncTimeout = 5 * time.Second

	a, err := NewWithConfig(logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return a
}

func TestGamificationEndToEnd(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	users, err := a.Repos.User.Create(dbctx.Of(ctx), []*types.User{
		{Email: "marta@example.com", DisplayName: "Marta", Category: user.CategoryEmployee},
		{Email: "paulo@example.com", DisplayName: "Paulo", Category: user.CategoryManager},
		{Email: "acme@example.com", DisplayName: "Acme", Category: user.CategorySupplier},
	})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	me := users[0]
	token, err := a.Services.Auth.IssueAccessToken(me.ID)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	stream := a.Hub.NewClient(me.ID)
	a.Hub.AddChannel(stream, realtime.UserChannel(me.ID))
	defer a.Hub.CloseClient(stream)

	call := func(method, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		a.Server.Engine.ServeHTTP(rec, req)
		return rec
	}

	if rec := call(http.MethodPost, "/api/gamification/games/ethics-quiz/complete", `{"points":100}`); rec.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", rec.Code, rec.Body.String())
	}

	// ranking and sync events may arrive around the progress one
	deadline := time.After(2 * time.Second)
	for gotProgress := false; !gotProgress; {
		select {
		case msg := <-stream.Outbound:
			gotProgress = msg.Event == realtime.EventProgress
		case <-deadline:
			t.Fatalf("no realtime progress event")
		}
	}

	rec := call(http.MethodPost, "/api/gamification/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload: %d %s", rec.Code, rec.Body.String())
	}
	var reload struct {
		Overview services.Overview `json:"overview"`
		Warning  string            `json:"warning"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reload); err != nil {
		t.Fatalf("decode reload: %v", err)
	}
	if reload.Warning != "" || reload.Overview.State.TotalScore != 100 || reload.Overview.Sync.State != store.SyncSynced {
		t.Fatalf("reloaded overview: %+v warning=%q", reload.Overview, reload.Warning)
	}

	rec = call(http.MethodGet, "/api/gamification/ranking", "")
	var ranking struct {
		Ranking services.RankingView `json:"ranking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ranking); err != nil {
		t.Fatalf("decode ranking: %v", err)
	}
	if len(ranking.Ranking.Players) != 2 || ranking.Ranking.Position != 1 {
		t.Fatalf("ranking: %+v", ranking.Ranking)
	}

	st, err := a.Repos.Progress.GetState(dbctx.Of(ctx), me.ID)
	if err != nil || st == nil || st.TotalScore != 100 {
		t.Fatalf("stored state: %+v err=%v", st, err)
	}
}

func TestHealthcheckPingsDatabase(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d %s", rec.Code, rec.Body.String())
	}
}

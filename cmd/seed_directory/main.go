package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/integrity-backend/internal/app"
	"github.com/yungbote/integrity-backend/internal/data/db"
	"github.com/yungbote/integrity-backend/internal/data/repos"
	"github.com/yungbote/integrity-backend/internal/data/seed"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

func main() {
	var (
		path    string
		dryRun  bool
		timeout time.Duration
	)
	flag.StringVar(&path, "roster", "roster.yaml", "YAML roster with a members list")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the roster without writing")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error("read roster", "path", path, "error", err)
		os.Exit(1)
	}
	roster, err := seed.ParseRoster(raw)
	if err != nil {
		log.Error("invalid roster", "path", path, "error", err)
		os.Exit(1)
	}
	if dryRun {
		log.Info("roster ok", "members", len(roster.Members))
		return
	}

	cfg := app.LoadConfig(log)
	dbService, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Error("db open failed", "error", err)
		os.Exit(1)
	}
	defer dbService.Close()
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		log.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	userRepo := repos.NewUserRepo(dbService.DB(), log)
	profileRepo := repos.NewUserProfileRepo(dbService.DB(), log)

	var res seed.Result
	err = dbService.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var applyErr error
		res, applyErr = seed.Apply(dbctx.Context{Ctx: ctx, Tx: tx}, userRepo, profileRepo, roster)
		return applyErr
	})
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("directory seeded", "users", res.Users, "profiles", res.Profiles)
}

package main

import (
	"context"
	"time"

	"github.com/deeplehr/checkin/config"
	"github.com/deeplehr/checkin/controllers"
	"github.com/deeplehr/checkin/routes"
	"github.com/deeplehr/checkin/session"
	"github.com/deeplehr/checkin/sheets"
	"github.com/deeplehr/checkin/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Session store: Redis when reachable, otherwise in-process memory.
	// Memory means sessions die with the process, which the local-first
	// design already tolerates.
	var store session.Store
	if utils.RedisAvailable() {
		store = session.NewRedis(utils.GetRedis(), time.Duration(cfg.SessionTTLDays)*24*time.Hour, utils.Sugar)
		utils.Sugar.Info("session store: redis")
	} else {
		store = session.NewMemory()
		utils.Sugar.Warn("redis unreachable, session store falling back to memory")
	}

	sessions := session.NewManager(store, utils.Sugar)
	sheetsClient := sheets.NewClient(cfg.SheetsScriptURL, time.Duration(cfg.SheetsTimeoutSec)*time.Second, utils.Sugar)

	// Mirror committed events to the sheet, fire-and-forget. The local write
	// is already durable when this runs; a failed push only logs.
	sessions.Notify(func(ev session.Event) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Duration(cfg.SheetsTimeoutSec)*time.Second)
			defer cancel()

			if ev.Type == session.EventCheckIn {
				sheetsClient.SaveAttendance(ctx, sheets.Record{
					Nickname:  ev.Nickname,
					Email:     ev.Email,
					Date:      ev.Day,
					Streak:    ev.Streak,
					TotalDays: ev.TotalDays,
				})
			}

			// Opportunistic snapshot refresh after either event type.
			if rows, err := sheetsClient.FetchRanking(ctx); err == nil {
				utils.CacheSetJSON(controllers.RankingSnapshotCacheKey, rows, time.Duration(cfg.RankingCacheSec)*time.Second)
			}
		}()
	})

	r := routes.SetupRouter(sessions, sheetsClient)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deeplehr/checkin/config"
	"github.com/deeplehr/checkin/models"
	"github.com/deeplehr/checkin/session"
	"github.com/deeplehr/checkin/sheets"
	"github.com/deeplehr/checkin/utils"
)

// RankingSnapshotCacheKey holds the last shared snapshot pulled from the
// sheet, so a flaky endpoint degrades to slightly stale data instead of an
// empty board.
const RankingSnapshotCacheKey = "cache:ranking:snapshot"

// RankingController serves the leaderboard.
type RankingController struct {
	sessions *session.Manager
	sheets   *sheets.Client
}

// NewRankingController creates a new controller instance.
func NewRankingController(sessions *session.Manager, sheetsClient *sheets.Client) *RankingController {
	return &RankingController{sessions: sessions, sheets: sheetsClient}
}

// GetRanking merges the shared snapshot (remote, then cached, then nothing)
// into the session's local board. The local attendance state stays
// authoritative for the current user's own row.
func (r *RankingController) GetRanking(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cctx := ctx.Request.Context()
	merged := r.sessions.Ranking(cctx, sid)

	for _, row := range r.snapshot(cctx) {
		name := utils.SanitizeNickname(row.Name)
		if name == "" {
			continue
		}
		merged = models.UpsertRanking(merged, models.RankingEntry{
			Name:      name,
			Streak:    row.Streak,
			TotalDays: row.TotalDays,
		})
	}

	// Re-flag the current user from local state, which wins over whatever
	// the sheet says about the same name.
	if user, ok := r.sessions.User(cctx, sid); ok {
		st := r.sessions.Attendance(cctx, sid)
		_, st = st.Evaluate(time.Now())
		if st.TotalDays > 0 {
			merged = models.UpsertRanking(merged, models.RankingEntry{
				Name:          user.Nickname,
				Streak:        st.CurrentStreak,
				TotalDays:     st.TotalDays,
				IsCurrentUser: true,
			})
		}
	}

	r.sessions.SaveRanking(cctx, sid, merged)

	resp := gin.H{
		"entries": merged,
		"stats":   models.SummarizeRanking(merged),
	}
	if me, ok := models.FindCurrentUser(merged); ok {
		resp["me"] = me
	}
	utils.Success(ctx, resp)
}

// snapshot pulls the shared board once, caching on success and falling back
// to the cached copy (or nothing) on any failure.
func (r *RankingController) snapshot(ctx context.Context) []sheets.Row {
	rows, err := r.sheets.FetchRanking(ctx)
	if err == nil {
		utils.CacheSetJSON(RankingSnapshotCacheKey, rows,
			time.Duration(config.Get().RankingCacheSec)*time.Second)
		return rows
	}
	if utils.Sugar != nil {
		utils.Sugar.Debugf("ranking pull failed, using cached snapshot: %v", err)
	}

	if b, ok := utils.CacheGetBytes(RankingSnapshotCacheKey); ok {
		var cached []sheets.Row
		if json.Unmarshal(b, &cached) == nil {
			return cached
		}
	}
	return nil
}

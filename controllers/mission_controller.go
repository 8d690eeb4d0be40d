package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deeplehr/checkin/models"
	"github.com/deeplehr/checkin/session"
	"github.com/deeplehr/checkin/utils"
)

// MissionController serves the day-of-week mission card.
type MissionController struct {
	sessions *session.Manager
}

// NewMissionController creates a new controller instance.
func NewMissionController(sessions *session.Manager) *MissionController {
	return &MissionController{sessions: sessions}
}

// Today returns the mission offered today and whether it is unlocked. The
// mission unlocks the moment a check-in commits, no reload required, because
// this derives from the same stored attendance state.
func (m *MissionController) Today(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	today := models.Day(now)

	st := m.sessions.Attendance(ctx.Request.Context(), sid)
	checked, _ := st.Evaluate(now)
	log := m.sessions.Missions(ctx.Request.Context(), sid)

	utils.Success(ctx, gin.H{
		"mission":   models.MissionForDay(now),
		"today":     today,
		"unlocked":  models.MissionUnlocked(checked, log, today),
		"completed": log[today],
	})
}

// Complete marks today's mission done. Requires the mission to be unlocked;
// completing an already-completed mission is a no-op, not an error.
func (m *MissionController) Complete(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	today := models.Day(now)

	st := m.sessions.Attendance(ctx.Request.Context(), sid)
	checked, _ := st.Evaluate(now)
	log := m.sessions.Missions(ctx.Request.Context(), sid)
	if !models.MissionUnlocked(checked, log, today) {
		utils.Error(ctx, http.StatusBadRequest, 40031, "check in before starting today's mission")
		return
	}

	changed, err := m.sessions.CompleteMission(ctx.Request.Context(), sid, now)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			utils.Error(ctx, http.StatusUnauthorized, 40111, "session expired")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to record mission")
		return
	}

	utils.Success(ctx, gin.H{
		"mission":          models.MissionForDay(now),
		"completed":        true,
		"alreadyCompleted": !changed,
	})
}

// History returns the trailing seven days of missions, oldest first.
func (m *MissionController) History(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	log := m.sessions.Missions(ctx.Request.Context(), sid)
	utils.Success(ctx, gin.H{
		"records": models.MissionHistory(time.Now(), log),
	})
}

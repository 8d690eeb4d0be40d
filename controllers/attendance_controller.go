package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deeplehr/checkin/models"
	"github.com/deeplehr/checkin/session"
	"github.com/deeplehr/checkin/utils"
)

// AttendanceController handles the daily check-in endpoints.
type AttendanceController struct {
	sessions *session.Manager
}

// NewAttendanceController creates a new controller instance.
func NewAttendanceController(sessions *session.Manager) *AttendanceController {
	return &AttendanceController{sessions: sessions}
}

// Status returns today's attendance view: whether the user already checked
// in, and the streak after the gap-reset rule. Reads never mutate the store;
// a broken streak is persisted as zero only by the next check-in.
func (a *AttendanceController) Status(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	st := a.sessions.Attendance(ctx.Request.Context(), sid)
	checked, st := st.Evaluate(now)

	utils.Success(ctx, gin.H{
		"hasCheckedToday":     checked,
		"currentStreak":       st.CurrentStreak,
		"totalAttendanceDays": st.TotalDays,
		"lastAttendanceDate":  st.LastDate,
		"today":               models.Day(now),
	})
}

// CheckIn records today's attendance. A same-day repeat is a silent no-op:
// the response flags it but nothing changes and nothing is pushed.
func (a *AttendanceController) CheckIn(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	res, err := a.sessions.CheckIn(ctx.Request.Context(), sid, time.Now())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			utils.Error(ctx, http.StatusUnauthorized, 40111, "session expired")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record check-in")
		return
	}

	utils.Success(ctx, gin.H{
		"alreadyChecked":      res.AlreadyChecked,
		"currentStreak":       res.State.CurrentStreak,
		"totalAttendanceDays": res.State.TotalDays,
		"lastAttendanceDate":  res.State.LastDate,
		"rankChange":          rankChange(res.OldRank, res.NewRank),
	})
}

// Calendar renders the ten-cell streak strip of the attendance page.
func (a *AttendanceController) Calendar(ctx *gin.Context) {
	sid, ok := getSessionID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	st := a.sessions.Attendance(ctx.Request.Context(), sid)
	_, st = st.Evaluate(time.Now())

	cells := make([]gin.H, 0, 10)
	for day := 1; day <= 10; day++ {
		cells = append(cells, gin.H{
			"day":       fmt.Sprintf("%d일차", day),
			"completed": day <= st.CurrentStreak,
			"current":   day == st.CurrentStreak && st.CurrentStreak > 0,
		})
	}
	utils.Success(ctx, gin.H{"cells": cells, "currentStreak": st.CurrentStreak})
}

func rankChange(oldRank, newRank int) gin.H {
	direction := "same"
	delta := 0
	switch {
	case oldRank == 0 && newRank > 0:
		direction = "new"
	case newRank < oldRank:
		direction = "up"
		delta = oldRank - newRank
	case newRank > oldRank:
		direction = "down"
		delta = newRank - oldRank
	}
	return gin.H{
		"oldRank":   oldRank,
		"newRank":   newRank,
		"direction": direction,
		"delta":     delta,
	}
}

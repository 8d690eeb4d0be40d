package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deeplehr/checkin/models"
)

func newTestManager(t *testing.T) (*Manager, *Memory) {
	t.Helper()
	store := NewMemory()
	return NewManager(store, nil), store
}

func login(t *testing.T, m *Manager) string {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	return m.Login(context.Background(), models.UserInfo{
		Nickname:  "나현재",
		Email:     "me@example.com",
		JoinDate:  now,
		LastLogin: now,
	})
}

func TestLoginAndUserRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sid := login(t, m)
	require.True(t, m.LoggedIn(ctx, sid))

	user, ok := m.User(ctx, sid)
	require.True(t, ok)
	require.Equal(t, "나현재", user.Nickname)
	require.Equal(t, "me@example.com", user.Email)
}

func TestCheckInPersistsBeforeListenersRun(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	var seen []Event
	m.Notify(func(ev Event) {
		// the store must already hold the committed state
		st := m.Attendance(ctx, sid)
		require.Equal(t, ev.Streak, st.CurrentStreak)
		require.Equal(t, ev.TotalDays, st.TotalDays)
		seen = append(seen, ev)
	})

	res, err := m.CheckIn(ctx, sid, now)
	require.NoError(t, err)
	require.False(t, res.AlreadyChecked)
	require.Equal(t, 1, res.State.CurrentStreak)
	require.Equal(t, 1, res.NewRank)
	require.Equal(t, 0, res.OldRank)

	require.Len(t, seen, 1)
	require.Equal(t, EventCheckIn, seen[0].Type)
	require.Equal(t, "2025-03-10", seen[0].Day)
}

func TestCheckInSameDayIsSilentNoOp(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	events := 0
	m.Notify(func(Event) { events++ })

	_, err := m.CheckIn(ctx, sid, now)
	require.NoError(t, err)

	res, err := m.CheckIn(ctx, sid, now.Add(3*time.Hour))
	require.NoError(t, err)
	require.True(t, res.AlreadyChecked)
	require.Equal(t, 1, res.State.CurrentStreak)
	require.Equal(t, 1, res.State.TotalDays)
	require.Equal(t, 1, events)
}

func TestCheckInConsecutiveDays(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		res, err := m.CheckIn(ctx, sid, day1.AddDate(0, 0, i))
		require.NoError(t, err)
		require.Equal(t, i+1, res.State.CurrentStreak)
	}

	// 3-day gap breaks the streak, totals keep counting
	res, err := m.CheckIn(ctx, sid, day1.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Equal(t, 1, res.State.CurrentStreak)
	require.Equal(t, 4, res.State.TotalDays)
}

func TestCheckInUpdatesRankingRow(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	m.SaveRanking(ctx, sid, []models.RankingEntry{
		{Rank: 1, Name: "김철수", Streak: 15, TotalDays: 20, Icon: "trophy"},
		{Rank: 2, Name: "이영희", Streak: 12, TotalDays: 18, Icon: "medal"},
	})

	res, err := m.CheckIn(ctx, sid, now)
	require.NoError(t, err)
	require.Equal(t, 3, res.NewRank)

	list := m.Ranking(ctx, sid)
	require.Len(t, list, 3)
	me, ok := models.FindCurrentUser(list)
	require.True(t, ok)
	require.Equal(t, "나현재", me.Name)
	require.Equal(t, 1, me.Streak)
}

func TestCompleteMissionIdempotentAndNotifiesOnce(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	var events []Event
	m.Notify(func(ev Event) { events = append(events, ev) })

	changed, err := m.CompleteMission(ctx, sid, now)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = m.CompleteMission(ctx, sid, now)
	require.NoError(t, err)
	require.False(t, changed)

	require.Len(t, events, 1)
	require.Equal(t, EventMissionCompleted, events[0].Type)

	log := m.Missions(ctx, sid)
	require.True(t, log["2025-03-10"])
	require.Len(t, log, 1)
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)

	var order []string
	m.Notify(func(Event) { order = append(order, "first") })
	m.Notify(func(Event) { order = append(order, "second") })

	_, err := m.CheckIn(ctx, sid, time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestCorruptValuesReadAsDefaults(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)

	store.Set(ctx, sid, KeyCurrentStreak, "not-a-number")
	store.Set(ctx, sid, KeyCompletedMissions, "{broken json")
	store.Set(ctx, sid, KeyRankingData, "also broken")

	st := m.Attendance(ctx, sid)
	require.Equal(t, 0, st.CurrentStreak)
	require.Empty(t, m.Missions(ctx, sid))
	require.Nil(t, m.Ranking(ctx, sid))

	store.Set(ctx, sid, KeyUserInfo, "{nope")
	_, ok := m.User(ctx, sid)
	require.False(t, ok)
}

func TestLogoutClearsEverything(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := login(t, m)

	_, err := m.CheckIn(ctx, sid, time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	require.NoError(t, err)

	m.Logout(ctx, sid)

	require.False(t, m.LoggedIn(ctx, sid))
	_, ok := m.User(ctx, sid)
	require.False(t, ok)
	require.Equal(t, models.AttendanceState{}, m.Attendance(ctx, sid))
	require.Nil(t, m.Ranking(ctx, sid))
}

func TestCheckInWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.CheckIn(context.Background(), "no-such-session", time.Now())
	require.ErrorIs(t, err, ErrNoSession)

	_, err = m.CompleteMission(context.Background(), "no-such-session", time.Now())
	require.ErrorIs(t, err, ErrNoSession)
}

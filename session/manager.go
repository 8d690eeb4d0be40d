package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deeplehr/checkin/models"
)

// ErrNoSession signals a request for a session that does not exist or was
// logged out.
var ErrNoSession = errors.New("session not found")

// EventType identifies a session mutation published to listeners.
type EventType int

const (
	// EventCheckIn fires after a check-in committed to the store.
	EventCheckIn EventType = iota
	// EventMissionCompleted fires after a first-time mission completion.
	EventMissionCompleted
)

// Event carries everything a listener needs without touching the store again.
type Event struct {
	Type      EventType
	SessionID string
	Nickname  string
	Email     string
	Day       string
	Streak    int
	TotalDays int
}

// Listener receives events synchronously, in registration order, after the
// local write completed. Long work belongs in a goroutine spawned by the
// listener.
type Listener func(Event)

// CheckInResult is what the attendance page renders after a check-in attempt.
type CheckInResult struct {
	State          models.AttendanceState
	AlreadyChecked bool
	OldRank        int
	NewRank        int
}

// Manager is the single writer for all session state. Components read
// through it and mutate only via Login, CheckIn, CompleteMission and Logout,
// never by poking store keys directly.
type Manager struct {
	store     Store
	log       *zap.SugaredLogger
	listeners []Listener
	locks     sync.Map // sid -> *sync.Mutex
}

// NewManager wraps a Store.
func NewManager(store Store, log *zap.SugaredLogger) *Manager {
	return &Manager{store: store, log: log}
}

// Notify registers a listener. Must be called during wiring, before the
// manager starts serving requests.
func (m *Manager) Notify(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(ev Event) {
	for _, fn := range m.listeners {
		fn(ev)
	}
}

func (m *Manager) lock(sid string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(sid, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Login creates a fresh session for the user and returns its ID.
func (m *Manager) Login(ctx context.Context, user models.UserInfo) string {
	sid := uuid.NewString()
	m.saveUser(ctx, sid, user)
	m.store.Set(ctx, sid, KeyIsLoggedIn, "true")
	return sid
}

// LoggedIn reports whether the session is live.
func (m *Manager) LoggedIn(ctx context.Context, sid string) bool {
	v, ok := m.store.Get(ctx, sid, KeyIsLoggedIn)
	return ok && v == "true"
}

// User returns the stored profile. A corrupt or missing value reads as
// absent, never as an error.
func (m *Manager) User(ctx context.Context, sid string) (models.UserInfo, bool) {
	raw, ok := m.store.Get(ctx, sid, KeyUserInfo)
	if !ok {
		return models.UserInfo{}, false
	}
	var user models.UserInfo
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		if m.log != nil {
			m.log.Debugf("corrupt userInfo sid=%s err=%v", sid, err)
		}
		return models.UserInfo{}, false
	}
	return user, true
}

func (m *Manager) saveUser(ctx context.Context, sid string, user models.UserInfo) {
	b, err := json.Marshal(user)
	if err != nil {
		return
	}
	m.store.Set(ctx, sid, KeyUserInfo, string(b))
}

// TouchLastLogin refreshes the profile's LastLogin stamp.
func (m *Manager) TouchLastLogin(ctx context.Context, sid string, now time.Time) {
	mu := m.lock(sid)
	mu.Lock()
	defer mu.Unlock()
	user, ok := m.User(ctx, sid)
	if !ok {
		return
	}
	user.LastLogin = now
	m.saveUser(ctx, sid, user)
}

// Attendance reads the raw stored attendance state. Corrupt counters read as
// zero, a corrupt date as absent.
func (m *Manager) Attendance(ctx context.Context, sid string) models.AttendanceState {
	var st models.AttendanceState
	if v, ok := m.store.Get(ctx, sid, KeyCurrentStreak); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			st.CurrentStreak = n
		}
	}
	if v, ok := m.store.Get(ctx, sid, KeyLastAttendanceDate); ok {
		st.LastDate = v
	}
	if v, ok := m.store.Get(ctx, sid, KeyTotalDays); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			st.TotalDays = n
		}
	}
	return st
}

func (m *Manager) saveAttendance(ctx context.Context, sid string, st models.AttendanceState) {
	m.store.Set(ctx, sid, KeyCurrentStreak, strconv.Itoa(st.CurrentStreak))
	m.store.Set(ctx, sid, KeyLastAttendanceDate, st.LastDate)
	m.store.Set(ctx, sid, KeyTotalDays, strconv.Itoa(st.TotalDays))
}

// Missions returns the completion log; corrupt JSON reads as an empty log.
func (m *Manager) Missions(ctx context.Context, sid string) models.MissionLog {
	raw, ok := m.store.Get(ctx, sid, KeyCompletedMissions)
	if !ok {
		return models.MissionLog{}
	}
	var log models.MissionLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil || log == nil {
		return models.MissionLog{}
	}
	return log
}

func (m *Manager) saveMissions(ctx context.Context, sid string, log models.MissionLog) {
	b, err := json.Marshal(log)
	if err != nil {
		return
	}
	m.store.Set(ctx, sid, KeyCompletedMissions, string(b))
}

// Ranking returns the locally cached leaderboard; corrupt JSON reads as empty.
func (m *Manager) Ranking(ctx context.Context, sid string) []models.RankingEntry {
	raw, ok := m.store.Get(ctx, sid, KeyRankingData)
	if !ok {
		return nil
	}
	var list []models.RankingEntry
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// SaveRanking persists the merged leaderboard for the session.
func (m *Manager) SaveRanking(ctx context.Context, sid string, list []models.RankingEntry) {
	b, err := json.Marshal(list)
	if err != nil {
		return
	}
	m.store.Set(ctx, sid, KeyRankingData, string(b))
}

// CheckIn runs the daily check-in transition: attendance state first, then
// the leaderboard row, then listeners. The local write always completes
// before any listener (and so any remote push) runs; a failed push can never
// roll it back. A same-day repeat is a silent no-op.
func (m *Manager) CheckIn(ctx context.Context, sid string, now time.Time) (CheckInResult, error) {
	mu := m.lock(sid)
	mu.Lock()
	defer mu.Unlock()

	user, ok := m.User(ctx, sid)
	if !ok {
		return CheckInResult{}, ErrNoSession
	}

	st := m.Attendance(ctx, sid)
	next, err := st.CheckIn(now)
	if errors.Is(err, models.ErrAlreadyCheckedIn) {
		return CheckInResult{State: st, AlreadyChecked: true}, nil
	}
	m.saveAttendance(ctx, sid, next)

	list := m.Ranking(ctx, sid)
	oldRank := 0
	for _, e := range list {
		if e.Name == user.Nickname {
			oldRank = e.Rank
			break
		}
	}
	list = models.UpsertRanking(list, models.RankingEntry{
		Name:          user.Nickname,
		Streak:        next.CurrentStreak,
		TotalDays:     next.TotalDays,
		IsCurrentUser: true,
	})
	newRank := 0
	if e, ok := models.FindCurrentUser(list); ok {
		newRank = e.Rank
	}
	m.SaveRanking(ctx, sid, list)

	m.emit(Event{
		Type:      EventCheckIn,
		SessionID: sid,
		Nickname:  user.Nickname,
		Email:     user.Email,
		Day:       next.LastDate,
		Streak:    next.CurrentStreak,
		TotalDays: next.TotalDays,
	})

	return CheckInResult{State: next, OldRank: oldRank, NewRank: newRank}, nil
}

// CompleteMission marks today's mission done. Completing an already-completed
// mission changes nothing and emits nothing.
func (m *Manager) CompleteMission(ctx context.Context, sid string, now time.Time) (bool, error) {
	mu := m.lock(sid)
	mu.Lock()
	defer mu.Unlock()

	user, ok := m.User(ctx, sid)
	if !ok {
		return false, ErrNoSession
	}

	log := m.Missions(ctx, sid)
	if !log.Complete(models.Day(now)) {
		return false, nil
	}
	m.saveMissions(ctx, sid, log)

	// Refresh the user's leaderboard row so total-day counts stay current.
	st := m.Attendance(ctx, sid)
	_, st = st.Evaluate(now)
	list := models.UpsertRanking(m.Ranking(ctx, sid), models.RankingEntry{
		Name:          user.Nickname,
		Streak:        st.CurrentStreak,
		TotalDays:     st.TotalDays,
		IsCurrentUser: true,
	})
	m.SaveRanking(ctx, sid, list)

	m.emit(Event{
		Type:      EventMissionCompleted,
		SessionID: sid,
		Nickname:  user.Nickname,
		Email:     user.Email,
		Day:       models.Day(now),
		Streak:    st.CurrentStreak,
		TotalDays: st.TotalDays,
	})

	return true, nil
}

// Logout clears every key of the session.
func (m *Manager) Logout(ctx context.Context, sid string) {
	mu := m.lock(sid)
	mu.Lock()
	defer mu.Unlock()
	m.store.Clear(ctx, sid)
	m.locks.Delete(sid)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMissionForDayIsDeterministic(t *testing.T) {
	// 2025-03-10 is a Monday
	monday := localDate(2025, 3, 10)
	m := MissionForDay(monday)
	require.Equal(t, time.Monday, m.Weekday)
	require.Equal(t, MissionForDay(monday), MissionForDay(monday.Add(5*time.Hour)))

	sunday := localDate(2025, 3, 9)
	require.Equal(t, time.Sunday, MissionForDay(sunday).Weekday)
}

func TestMissionTableCoversAllWeekdays(t *testing.T) {
	start := localDate(2025, 3, 9) // Sunday
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		m := MissionForDay(d)
		require.Equal(t, d.Weekday(), m.Weekday)
		require.NotEmpty(t, m.Title)
		require.NotEmpty(t, m.URL)
		require.Greater(t, m.Points, 0)
	}
}

func TestMissionUnlocked(t *testing.T) {
	today := "2025-03-10"
	log := MissionLog{}

	require.False(t, MissionUnlocked(false, log, today))
	require.True(t, MissionUnlocked(true, log, today))

	log[today] = true
	require.True(t, MissionUnlocked(false, log, today))
}

func TestMissionCompleteIsIdempotent(t *testing.T) {
	log := MissionLog{}

	require.True(t, log.Complete("2025-03-10"))
	require.False(t, log.Complete("2025-03-10"))
	require.True(t, log["2025-03-10"])
	require.Len(t, log, 1)
}

func TestMissionHistory(t *testing.T) {
	now := localDate(2025, 3, 10)
	log := MissionLog{
		"2025-03-10": true,
		"2025-03-08": true,
	}

	records := MissionHistory(now, log)
	require.Len(t, records, 7)
	require.Equal(t, "2025-03-04", records[0].Date)
	require.Equal(t, "2025-03-10", records[6].Date)
	require.True(t, records[6].Completed)
	require.True(t, records[4].Completed)
	require.False(t, records[5].Completed)

	for _, rec := range records {
		d, ok := ParseDay(rec.Date)
		require.True(t, ok)
		require.Equal(t, int(d.Weekday()), rec.DayOfWeek)
		require.Equal(t, MissionForDay(d).Title, rec.Title)
	}
}

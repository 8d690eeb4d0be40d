package models

import (
	"math/rand"
	"sort"
)

// RankingEntry is one leaderboard row. Entries are keyed by Name; a name
// collision silently overwrites the existing row.
type RankingEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	Streak        int    `json:"streak"`
	TotalDays     int    `json:"totalDays"`
	Icon          string `json:"icon"`
	IsCurrentUser bool   `json:"isCurrentUser,omitempty"`
}

// rankingIcons are the display glyphs drawn at random for new entries.
// Cosmetic only, so the draw is not seeded.
var rankingIcons = []string{"trophy", "medal", "award", "star", "crown"}

// UpsertRanking merges entry into list by name and returns the re-sorted,
// re-ranked board. Every row whose name differs from the upserted one loses
// its current-user flag, so at most one survives. The sort is stable: rows
// with equal (streak, totalDays) keep their relative order.
func UpsertRanking(list []RankingEntry, entry RankingEntry) []RankingEntry {
	out := make([]RankingEntry, len(list))
	copy(out, list)

	found := false
	for i := range out {
		if out[i].Name == entry.Name {
			out[i].Streak = entry.Streak
			out[i].TotalDays = entry.TotalDays
			out[i].IsCurrentUser = entry.IsCurrentUser
			found = true
		} else {
			out[i].IsCurrentUser = false
		}
	}
	if !found {
		if entry.Icon == "" {
			entry.Icon = rankingIcons[rand.Intn(len(rankingIcons))]
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Streak != out[j].Streak {
			return out[i].Streak > out[j].Streak
		}
		return out[i].TotalDays > out[j].TotalDays
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// FindCurrentUser returns the row flagged as the current user, if any.
func FindCurrentUser(list []RankingEntry) (RankingEntry, bool) {
	for _, e := range list {
		if e.IsCurrentUser {
			return e, true
		}
	}
	return RankingEntry{}, false
}

// RankingStats summarizes the board for the statistics card.
type RankingStats struct {
	Participants    int `json:"participants"`
	LeaderTotalDays int `json:"leaderTotalDays"`
	BestStreak      int `json:"bestStreak"`
	AvgTotalDays    int `json:"avgTotalDays"`
}

// SummarizeRanking computes the statistics card values: the leader's total
// days, the best streak on the board, and the mean total days rounded to the
// nearest integer.
func SummarizeRanking(list []RankingEntry) RankingStats {
	stats := RankingStats{Participants: len(list)}
	if len(list) == 0 {
		return stats
	}
	stats.LeaderTotalDays = list[0].TotalDays
	sum := 0
	for _, e := range list {
		if e.Streak > stats.BestStreak {
			stats.BestStreak = e.Streak
		}
		sum += e.TotalDays
	}
	stats.AvgTotalDays = (sum + len(list)/2) / len(list)
	return stats
}

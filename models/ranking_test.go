package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsertRankingSortAndRanks(t *testing.T) {
	list := []RankingEntry{
		{Name: "a", Streak: 5, TotalDays: 10, Icon: "award"},
		{Name: "b", Streak: 5, TotalDays: 20, Icon: "medal"},
	}

	out := UpsertRanking(list, RankingEntry{Name: "c", Streak: 8, TotalDays: 1, Icon: "trophy"})

	require.Len(t, out, 3)
	require.Equal(t, "c", out[0].Name)
	require.Equal(t, "b", out[1].Name)
	require.Equal(t, "a", out[2].Name)
	for i, e := range out {
		require.Equal(t, i+1, e.Rank)
	}
}

func TestUpsertRankingIsIdempotent(t *testing.T) {
	list := []RankingEntry{
		{Name: "a", Streak: 5, TotalDays: 10, Icon: "award"},
		{Name: "b", Streak: 8, TotalDays: 20, Icon: "medal"},
	}
	entry := RankingEntry{Name: "a", Streak: 9, TotalDays: 11, IsCurrentUser: true}

	once := UpsertRanking(list, entry)
	twice := UpsertRanking(once, entry)
	require.Equal(t, once, twice)
}

func TestUpsertRankingSingleCurrentUserFlag(t *testing.T) {
	list := []RankingEntry{
		{Name: "a", Streak: 5, TotalDays: 10, IsCurrentUser: true, Icon: "award"},
		{Name: "b", Streak: 8, TotalDays: 20, Icon: "medal"},
	}

	out := UpsertRanking(list, RankingEntry{Name: "b", Streak: 8, TotalDays: 21, IsCurrentUser: true})

	flagged := 0
	for _, e := range out {
		if e.IsCurrentUser {
			flagged++
			require.Equal(t, "b", e.Name)
		}
	}
	require.Equal(t, 1, flagged)
}

func TestUpsertRankingStableOnTies(t *testing.T) {
	list := []RankingEntry{
		{Name: "first", Streak: 3, TotalDays: 7, Icon: "award"},
		{Name: "second", Streak: 3, TotalDays: 7, Icon: "star"},
		{Name: "third", Streak: 3, TotalDays: 7, Icon: "medal"},
	}

	out := UpsertRanking(list, RankingEntry{Name: "newcomer", Streak: 1, TotalDays: 1, Icon: "crown"})

	require.Equal(t, "first", out[0].Name)
	require.Equal(t, "second", out[1].Name)
	require.Equal(t, "third", out[2].Name)
	require.Equal(t, "newcomer", out[3].Name)
}

func TestUpsertRankingAssignsIconOnInsert(t *testing.T) {
	out := UpsertRanking(nil, RankingEntry{Name: "a", Streak: 1, TotalDays: 1})
	require.NotEmpty(t, out[0].Icon)
}

func TestUpsertRankingDoesNotMutateInput(t *testing.T) {
	list := []RankingEntry{
		{Name: "a", Streak: 5, TotalDays: 10, IsCurrentUser: true, Icon: "award", Rank: 1},
	}
	_ = UpsertRanking(list, RankingEntry{Name: "b", Streak: 9, TotalDays: 9, IsCurrentUser: true})
	require.True(t, list[0].IsCurrentUser)
	require.Equal(t, 1, list[0].Rank)
}

func TestSummarizeRanking(t *testing.T) {
	require.Equal(t, RankingStats{}, SummarizeRanking(nil))

	list := UpsertRanking([]RankingEntry{
		{Name: "a", Streak: 15, TotalDays: 20, Icon: "trophy"},
		{Name: "b", Streak: 12, TotalDays: 18, Icon: "medal"},
		{Name: "c", Streak: 3, TotalDays: 12, Icon: "award"},
	}, RankingEntry{Name: "c", Streak: 3, TotalDays: 12})

	stats := SummarizeRanking(list)
	require.Equal(t, 3, stats.Participants)
	require.Equal(t, 20, stats.LeaderTotalDays)
	require.Equal(t, 15, stats.BestStreak)
	require.Equal(t, 17, stats.AvgTotalDays) // (20+18+12)/3 rounded
}

func TestFindCurrentUser(t *testing.T) {
	_, ok := FindCurrentUser([]RankingEntry{{Name: "a"}})
	require.False(t, ok)

	me, ok := FindCurrentUser([]RankingEntry{{Name: "a"}, {Name: "b", IsCurrentUser: true}})
	require.True(t, ok)
	require.Equal(t, "b", me.Name)
}

package models

import "time"

// Mission is one entry of the fixed weekly table. The table is static
// content, not logic; one mission is offered per weekday.
type Mission struct {
	Weekday     time.Weekday `json:"dayOfWeek"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Action      string       `json:"action"`
	URL         string       `json:"url"`
	Points      int          `json:"points"`
}

var missionTable = [7]Mission{
	time.Sunday: {
		Weekday:     time.Sunday,
		Title:       "디맨드에서 주간 정리하기",
		Description: "디맨드 플랫폼에서 한 주간의 성과를 정리하고 새로운 한 주를 준비해보세요",
		Action:      "정리하기",
		URL:         "https://www.dmand.co.kr/summary",
		Points:      25,
	},
	time.Monday: {
		Weekday:     time.Monday,
		Title:       "디맨드 커뮤니티에서 오늘의 공고 확인하기",
		Description: "디맨드 커뮤니티에서 새로운 채용 공고를 확인하고 관심 있는 포지션을 찾아보세요",
		Action:      "공고 보기",
		URL:         "https://www.dmand.co.kr/community",
		Points:      10,
	},
	time.Tuesday: {
		Weekday:     time.Tuesday,
		Title:       "디맨드 가이드북 받아보기",
		Description: "디맨드에서 제공하는 취업 준비 가이드북을 다운로드하세요",
		Action:      "다운로드",
		URL:         "https://www.dmand.co.kr/guide",
		Points:      15,
	},
	time.Wednesday: {
		Weekday:     time.Wednesday,
		Title:       "디맨드 커뮤니티 참여하기",
		Description: "디맨드 커뮤니티에서 다른 구직자들과 정보를 공유하고 네트워킹해보세요",
		Action:      "참여하기",
		URL:         "https://www.dmand.co.kr/community",
		Points:      20,
	},
	time.Thursday: {
		Weekday:     time.Thursday,
		Title:       "디맨드 이벤트 참여하기",
		Description: "디맨드에서 진행하는 특별 채용 이벤트에 참여하여 기회를 놓치지 마세요",
		Action:      "참여하기",
		URL:         "https://www.dmand.co.kr/events",
		Points:      25,
	},
	time.Friday: {
		Weekday:     time.Friday,
		Title:       "디맨드에서 주간 리뷰 작성하기",
		Description: "디맨드 플랫폼에서 이번 주 취업 활동을 돌아보고 다음 주 계획을 세워보세요",
		Action:      "작성하기",
		URL:         "https://www.dmand.co.kr/review",
		Points:      30,
	},
	time.Saturday: {
		Weekday:     time.Saturday,
		Title:       "디맨드에서 목표 설정하기",
		Description: "디맨드 플랫폼에서 다음 주 취업 목표를 구체적으로 설정해보세요",
		Action:      "설정하기",
		URL:         "https://www.dmand.co.kr/goals",
		Points:      20,
	},
}

// MissionForDay selects the mission offered on the day of t, deterministically
// by weekday.
func MissionForDay(t time.Time) Mission {
	return missionTable[int(t.Weekday())]
}

// MissionLog maps a calendar day string to completion. Entries are only ever
// added.
type MissionLog map[string]bool

// MissionUnlocked reports whether today's mission is actionable: the user
// checked in today, or already completed the mission.
func MissionUnlocked(checkedToday bool, log MissionLog, today string) bool {
	return checkedToday || log[today]
}

// Complete marks the mission for today as done. Returns false when it was
// already completed so callers can skip double notification.
func (l MissionLog) Complete(today string) bool {
	if l[today] {
		return false
	}
	l[today] = true
	return true
}

// MissionRecord is one row of the trailing seven-day history view.
type MissionRecord struct {
	Date      string `json:"date"`
	DayOfWeek int    `json:"dayOfWeek"`
	Title     string `json:"title"`
	Points    int    `json:"points"`
	Completed bool   `json:"completed"`
}

// MissionHistory returns the last seven days of missions, oldest first.
func MissionHistory(now time.Time, log MissionLog) []MissionRecord {
	records := make([]MissionRecord, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		m := MissionForDay(d)
		day := Day(d)
		records = append(records, MissionRecord{
			Date:      day,
			DayOfWeek: int(d.Weekday()),
			Title:     m.Title,
			Points:    m.Points,
			Completed: log[day],
		})
	}
	return records
}

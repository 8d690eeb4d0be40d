package models

import "time"

// UserInfo is the profile captured at login. Immutable afterwards except
// LastLogin. One user per session.
type UserInfo struct {
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	JoinDate  time.Time `json:"joinDate"`
	LastLogin time.Time `json:"lastLogin"`
}

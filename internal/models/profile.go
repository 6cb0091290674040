package models

import "time"

type Profile struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	DailyQuota int       `json:"daily_quota"`
	CreatedAt  time.Time `json:"created_at"`
}

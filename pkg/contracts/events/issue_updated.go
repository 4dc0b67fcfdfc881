package events

import "time"

// Evento publicado no tópico "issue_updated" quando volumes ou destaque mudam
type IssueUpdated struct {
	IssueID     int64     `json:"issue_id"`
	YesPrice    int       `json:"yes_price"`
	TotalVolume int64     `json:"total_volume"`
	YesVolume   int64     `json:"yes_volume"`
	NoVolume    int64     `json:"no_volume"`
	IsPopular   bool      `json:"is_popular"`
	Reason      string    `json:"reason"` // "create" | "update" | "delete" | "toggle_popular" | "bet"
	UpdatedAt   time.Time `json:"updated_at"`
}

package dto

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IssueInput carrega os campos de criação/edição de issue (admin)
type IssueInput struct {
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	YesPrice  int       `json:"yes_price"`
	EndDate   time.Time `json:"end_date"`
	IsPopular bool      `json:"is_popular,omitempty"`
}

type PlaceBetRequest struct {
	UserID  int64  `json:"userId"`
	IssueID int64  `json:"issueId"`
	Choice  Choice `json:"choice"`
	Amount  int64  `json:"amount"`
}

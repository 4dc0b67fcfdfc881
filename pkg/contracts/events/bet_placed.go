package events

// Evento publicado pelo simulador no tópico "bet_placed" após debitar as moedas
type BetPlaced struct {
	BetID     int64  `json:"bet_id"`
	UserID    int64  `json:"user_id"`
	IssueID   int64  `json:"issue_id"`
	Choice    string `json:"choice"` // "Yes" | "No"
	Amount    int64  `json:"amount"`
	CoinsLeft int64  `json:"coins_left"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}

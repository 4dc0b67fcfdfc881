package topics

const (
	// Bets
	BetPlaced = "bet_placed"

	// Issues
	IssueUpdated = "issue_updated"
)

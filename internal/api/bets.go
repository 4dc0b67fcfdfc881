package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/radieske/yegame-client/internal/api/dto"
)

type Bets struct {
	http Doer
}

func NewBets(d Doer) *Bets { return &Bets{http: d} }

// Place cria a aposta. O saldo local não é tocado aqui; o decremento
// otimista de coins fica com quem chama.
func (s *Bets) Place(ctx context.Context, userID, issueID int64, choice dto.Choice, amount int64) (*dto.Bet, error) {
	in := dto.PlaceBetRequest{UserID: userID, IssueID: issueID, Choice: choice, Amount: amount}
	var out dto.Bet
	if err := s.http.Do(ctx, http.MethodPost, "/bets", "/bets", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Bets) UserBets(ctx context.Context, userID int64) ([]dto.Bet, error) {
	var out []dto.Bet
	path := fmt.Sprintf("/bets/user/%d", userID)
	if err := s.http.Do(ctx, http.MethodGet, "/bets/user/{id}", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Bets) Stats(ctx context.Context, issueID int64) (*dto.BetStats, error) {
	var out dto.BetStats
	path := fmt.Sprintf("/bets/stats/%d", issueID)
	if err := s.http.Do(ctx, http.MethodGet, "/bets/stats/{id}", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

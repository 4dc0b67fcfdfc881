package simulator

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/radieske/yegame-client/internal/api/dto"
)

var (
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrIssueNotFound     = errors.New("issue not found")
	ErrIssueEnded        = errors.New("issue ended")
	ErrInsufficientCoins = errors.New("insufficient coins")
)

type userRecord struct {
	dto.User
	PasswordHash []byte
}

// Repo é o armazenamento em memória do simulador; seguro para uso concorrente
type Repo struct {
	mu sync.RWMutex

	users      map[int64]*userRecord
	byUsername map[string]int64
	issues     map[int64]*dto.Issue
	bets       []dto.Bet

	nextUser, nextIssue, nextBet int64

	now func() time.Time
}

func NewRepo(now func() time.Time) *Repo {
	if now == nil {
		now = time.Now
	}
	return &Repo{
		users:      map[int64]*userRecord{},
		byUsername: map[string]int64{},
		issues:     map[int64]*dto.Issue{},
		now:        now,
	}
}

func (r *Repo) CreateUser(username, email string, hash []byte, coins int64) (dto.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(username)
	if _, ok := r.byUsername[key]; ok {
		return dto.User{}, ErrUserExists
	}
	r.nextUser++
	u := &userRecord{
		User:         dto.User{ID: r.nextUser, Username: username, Email: email, Coins: coins},
		PasswordHash: hash,
	}
	r.users[u.ID] = u
	r.byUsername[key] = u.ID
	return u.User, nil
}

// FindByUsername devolve o usuário e o hash da senha
func (r *Repo) FindByUsername(username string) (dto.User, []byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return dto.User{}, nil, ErrUserNotFound
	}
	u := r.users[id]
	return u.User, u.PasswordHash, nil
}

func (r *Repo) GetUser(id int64) (dto.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return dto.User{}, ErrUserNotFound
	}
	return u.User, nil
}

// ListIssues ordena populares primeiro, depois por id
func (r *Repo) ListIssues() []dto.Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dto.Issue, 0, len(r.issues))
	for _, it := range r.issues {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPopular != out[j].IsPopular {
			return out[i].IsPopular
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Repo) GetIssue(id int64) (dto.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.issues[id]
	if !ok {
		return dto.Issue{}, ErrIssueNotFound
	}
	return *it, nil
}

func (r *Repo) CreateIssue(in dto.IssueInput) dto.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextIssue++
	it := &dto.Issue{
		ID:        r.nextIssue,
		Title:     in.Title,
		Category:  in.Category,
		YesPrice:  in.YesPrice,
		EndDate:   in.EndDate,
		IsPopular: in.IsPopular,
	}
	r.issues[it.ID] = it
	return *it
}

// UpdateIssue troca os campos editáveis; volumes ficam como estão
func (r *Repo) UpdateIssue(id int64, in dto.IssueInput) (dto.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.issues[id]
	if !ok {
		return dto.Issue{}, ErrIssueNotFound
	}
	it.Title = in.Title
	it.Category = in.Category
	it.YesPrice = in.YesPrice
	it.EndDate = in.EndDate
	it.IsPopular = in.IsPopular
	return *it, nil
}

func (r *Repo) DeleteIssue(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.issues[id]; !ok {
		return ErrIssueNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *Repo) TogglePopular(id int64) (dto.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.issues[id]
	if !ok {
		return dto.Issue{}, ErrIssueNotFound
	}
	it.IsPopular = !it.IsPopular
	return *it, nil
}

// PlaceBet debita o saldo e soma o volume da issue na mesma seção crítica.
// Devolve a aposta, o saldo restante e a issue atualizada.
func (r *Repo) PlaceBet(userID, issueID int64, choice dto.Choice, amount int64) (dto.Bet, int64, dto.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return dto.Bet{}, 0, dto.Issue{}, ErrUserNotFound
	}
	it, ok := r.issues[issueID]
	if !ok {
		return dto.Bet{}, 0, dto.Issue{}, ErrIssueNotFound
	}
	now := r.now()
	if !it.EndDate.After(now) {
		return dto.Bet{}, 0, dto.Issue{}, ErrIssueEnded
	}
	if u.Coins < amount {
		return dto.Bet{}, 0, dto.Issue{}, ErrInsufficientCoins
	}

	u.Coins -= amount
	it.TotalVolume += amount
	if choice == dto.ChoiceYes {
		it.YesVolume += amount
	} else {
		it.NoVolume += amount
	}

	r.nextBet++
	b := dto.Bet{
		ID:        r.nextBet,
		UserID:    userID,
		IssueID:   issueID,
		Choice:    choice,
		Amount:    amount,
		Status:    dto.BetActive,
		Title:     it.Title,
		Category:  it.Category,
		CreatedAt: now,
	}
	r.bets = append(r.bets, b)
	return b, u.Coins, *it, nil
}

// UserBets lista as apostas do usuário, mais recentes primeiro.
// status é derivado do end_date atual da issue.
func (r *Repo) UserBets(userID int64) []dto.Bet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	out := []dto.Bet{}
	for i := len(r.bets) - 1; i >= 0; i-- {
		b := r.bets[i]
		if b.UserID != userID {
			continue
		}
		b.Status = dto.BetEnded
		if it, ok := r.issues[b.IssueID]; ok {
			b.Title, b.Category = it.Title, it.Category
			if it.EndDate.After(now) {
				b.Status = dto.BetActive
			}
		}
		out = append(out, b)
	}
	return out
}

func (r *Repo) Stats(issueID int64) (dto.BetStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.issues[issueID]; !ok {
		return dto.BetStats{}, ErrIssueNotFound
	}
	st := dto.BetStats{IssueID: issueID}
	for _, b := range r.bets {
		if b.IssueID != issueID {
			continue
		}
		st.TotalBets++
		st.TotalAmount += b.Amount
		if b.Choice == dto.ChoiceYes {
			st.YesCount++
			st.YesAmount += b.Amount
		} else {
			st.NoCount++
			st.NoAmount += b.Amount
		}
	}
	return st, nil
}

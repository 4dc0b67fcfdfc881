package dto

import "time"

// Category é uma das categorias fixas de issue
type Category string

const (
	CategoryPolitics      Category = "정치"
	CategorySports        Category = "스포츠"
	CategoryEconomy       Category = "경제"
	CategoryCoin          Category = "코인"
	CategoryTech          Category = "테크"
	CategoryEntertainment Category = "엔터"
	CategoryWeather       Category = "날씨"
	CategoryWorld         Category = "해외"
)

// Categories lista as categorias válidas na ordem de exibição
var Categories = []Category{
	CategoryPolitics, CategorySports, CategoryEconomy, CategoryCoin,
	CategoryTech, CategoryEntertainment, CategoryWeather, CategoryWorld,
}

// Valid informa se a categoria pertence ao conjunto fixo
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Choice é o lado apostado
type Choice string

const (
	ChoiceYes Choice = "Yes"
	ChoiceNo  Choice = "No"
)

func (c Choice) Valid() bool { return c == ChoiceYes || c == ChoiceNo }

// BetStatus indica se o mercado da aposta ainda está aberto
type BetStatus string

const (
	BetActive BetStatus = "active"
	BetEnded  BetStatus = "ended"
)

// User é o perfil em cache no cliente; Coins espelha o saldo do servidor
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Coins    int64  `json:"coins"`
}

// Issue representa um mercado de previsão sim/não
type Issue struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	YesPrice    int       `json:"yes_price"` // 0-100
	EndDate     time.Time `json:"end_date"`
	TotalVolume int64     `json:"total_volume"`
	YesVolume   int64     `json:"yes_volume"`
	NoVolume    int64     `json:"no_volume"`
	IsPopular   bool      `json:"is_popular,omitempty"`
}

// NoPrice é o complemento de YesPrice
func (i Issue) NoPrice() int { return 100 - i.YesPrice }

// Bet é uma aposta criada por POST /bets; imutável do ponto de vista do cliente
type Bet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	IssueID   int64     `json:"issueId"`
	Choice    Choice    `json:"choice"`
	Amount    int64     `json:"amount"`
	Status    BetStatus `json:"status"`
	Title     string    `json:"title,omitempty"`    // título da issue (histórico)
	Category  Category  `json:"category,omitempty"` // categoria da issue (histórico)
	CreatedAt time.Time `json:"created_at"`
}

// BetStats agrega as apostas de uma issue
type BetStats struct {
	IssueID     int64 `json:"issueId"`
	TotalBets   int64 `json:"total_bets"`
	YesCount    int64 `json:"yes_count"`
	NoCount     int64 `json:"no_count"`
	TotalAmount int64 `json:"total_amount"`
	YesAmount   int64 `json:"yes_amount"`
	NoAmount    int64 `json:"no_amount"`
}

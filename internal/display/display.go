// Package display reúne os helpers de apresentação usados pelo CLI:
// catálogo de categorias, filtro de issues e formatação de datas e números.
package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// InitialCoins é o saldo de um usuário recém-cadastrado
const InitialCoins = 10000

// CategoryAll é o filtro "전체"
const CategoryAll = "all"

const defaultColor = "#6B7280"

type CategoryInfo struct {
	ID    string
	Name  string
	Color string
}

// CategoryList na ordem das abas, começando por "전체"
var CategoryList = []CategoryInfo{
	{ID: CategoryAll, Name: "전체", Color: defaultColor},
	{ID: string(dto.CategoryPolitics), Name: "정치", Color: "#EF4444"},
	{ID: string(dto.CategorySports), Name: "스포츠", Color: "#10B981"},
	{ID: string(dto.CategoryEconomy), Name: "경제", Color: "#3B82F6"},
	{ID: string(dto.CategoryCoin), Name: "코인", Color: "#F59E0B"},
	{ID: string(dto.CategoryTech), Name: "테크", Color: "#8B5CF6"},
	{ID: string(dto.CategoryEntertainment), Name: "엔터", Color: "#EC4899"},
	{ID: string(dto.CategoryWeather), Name: "날씨", Color: "#06B6D4"},
	{ID: string(dto.CategoryWorld), Name: "해외", Color: "#14B8A6"},
}

// CategoryColor devolve a cor da categoria; desconhecida cai no cinza padrão
func CategoryColor(category string) string {
	for _, c := range CategoryList {
		if c.ID == category {
			return c.Color
		}
	}
	return defaultColor
}

// FilterIssues aplica o filtro de categoria e a busca no título (sem diferenciar caixa).
// category vazia ou "all" não filtra.
func FilterIssues(issues []dto.Issue, category, query string) []dto.Issue {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]dto.Issue, 0, len(issues))
	for _, it := range issues {
		if category != "" && category != CategoryAll && string(it.Category) != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Title), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FormatDate descreve o tempo restante até end
func FormatDate(end, now time.Time) string {
	diff := end.Sub(now)
	if diff < 0 {
		return "종료됨"
	}

	days := int64(diff / (24 * time.Hour))
	hours := int64((diff % (24 * time.Hour)) / time.Hour)

	if days > 0 {
		return fmt.Sprintf("%d일 %d시간 남음", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%d시간 남음", hours)
	}

	minutes := int64((diff % time.Hour) / time.Minute)
	return fmt.Sprintf("%d분 남음", minutes)
}

// FormatNumber insere separador de milhar: 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// FormatPercent arredonda meio para cima: 49.5 -> "50%"
func FormatPercent(p float64) string {
	return strconv.FormatInt(int64(math.Floor(p+0.5)), 10) + "%"
}

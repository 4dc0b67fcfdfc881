package simulator

import (
	"time"

	"github.com/radieske/yegame-client/internal/api/dto"
)

// Seed cria algumas issues de exemplo com fim relativo a now
func Seed(r *Repo, now time.Time) {
	day := 24 * time.Hour
	seed := []dto.IssueInput{
		{Title: "비트코인, 연말까지 1억 원 돌파할까?", Category: dto.CategoryCoin, YesPrice: 62, EndDate: now.Add(60 * day), IsPopular: true},
		{Title: "다음 총선 투표율 70% 넘을까?", Category: dto.CategoryPolitics, YesPrice: 45, EndDate: now.Add(120 * day)},
		{Title: "한국 축구 대표팀, 월드컵 16강 진출?", Category: dto.CategorySports, YesPrice: 38, EndDate: now.Add(200 * day), IsPopular: true},
		{Title: "기준금리 연내 인하될까?", Category: dto.CategoryEconomy, YesPrice: 71, EndDate: now.Add(90 * day)},
		{Title: "이번 주말 서울에 비 올까?", Category: dto.CategoryWeather, YesPrice: 30, EndDate: now.Add(3 * day)},
		{Title: "애플, 폴더블 아이폰 발표?", Category: dto.CategoryTech, YesPrice: 25, EndDate: now.Add(150 * day)},
	}
	for _, in := range seed {
		r.CreateIssue(in)
	}
}

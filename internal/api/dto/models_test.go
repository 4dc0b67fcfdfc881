package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueNoPrice(t *testing.T) {
	for _, yes := range []int{0, 37, 50, 100} {
		i := Issue{YesPrice: yes}
		assert.Equal(t, 100, i.YesPrice+i.NoPrice())
	}
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryCoin.Valid())
	assert.False(t, Category("all").Valid())
	assert.False(t, Category("").Valid())
}

func TestChoiceValid(t *testing.T) {
	assert.True(t, ChoiceYes.Valid())
	assert.True(t, ChoiceNo.Valid())
	assert.False(t, Choice("yes").Valid())
}

func TestIssueDecodesBackendPayload(t *testing.T) {
	raw := `{"id":5,"title":"비트코인 1억 돌파?","category":"코인","yes_price":63,
		"end_date":"2026-12-31T15:00:00Z","total_volume":12000,"yes_volume":8000,"no_volume":4000}`

	var i Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &i))

	assert.Equal(t, int64(5), i.ID)
	assert.Equal(t, CategoryCoin, i.Category)
	assert.Equal(t, 37, i.NoPrice())
	assert.Equal(t, 2026, i.EndDate.Year())
	assert.Equal(t, int64(12000), i.TotalVolume)
}

func TestPlaceBetRequestWireNames(t *testing.T) {
	b, err := json.Marshal(PlaceBetRequest{UserID: 1, IssueID: 5, Choice: ChoiceYes, Amount: 1000})
	require.NoError(t, err)

	assert.JSONEq(t, `{"userId":1,"issueId":5,"choice":"Yes","amount":1000}`, string(b))
}

func TestErrorBodyText(t *testing.T) {
	assert.Equal(t, "m", ErrorBody{Message: "m", Error: "e"}.Text())
	assert.Equal(t, "e", ErrorBody{Error: "e"}.Text())
	assert.Empty(t, ErrorBody{}.Text())
}

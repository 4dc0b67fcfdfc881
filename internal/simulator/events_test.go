package simulator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/yegame-client/pkg/contracts/events"
)

type captureWriter struct{ msgs []kafka.Message }

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	bets, issues := &captureWriter{}, &captureWriter{}
	p := NewKafkaPublisher(bets, issues)

	require.NoError(t, p.PublishBetPlaced(context.Background(), events.BetPlaced{BetID: 1, IssueID: 5, Choice: "Yes", Amount: 1000}))
	require.NoError(t, p.PublishIssueUpdated(context.Background(), events.IssueUpdated{IssueID: 5, Reason: "bet"}))

	require.Len(t, bets.msgs, 1)
	assert.Equal(t, "5", string(bets.msgs[0].Key))

	var e events.BetPlaced
	require.NoError(t, json.Unmarshal(bets.msgs[0].Value, &e))
	assert.Equal(t, int64(1000), e.Amount)
	assert.NotZero(t, e.TsUnixMs)

	require.Len(t, issues.msgs, 1)
	var u events.IssueUpdated
	require.NoError(t, json.Unmarshal(issues.msgs[0].Value, &u))
	assert.False(t, u.UpdatedAt.IsZero())
}

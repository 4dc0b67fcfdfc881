package simulator

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/radieske/yegame-client/internal/shared/kafka"
	"github.com/radieske/yegame-client/pkg/contracts/events"
)

// Publisher recebe os eventos de domínio do simulador
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishIssueUpdated(ctx context.Context, e events.IssueUpdated) error
}

// NopPublisher descarta tudo (KAFKA_BROKERS vazio)
type NopPublisher struct{}

func (NopPublisher) PublishBetPlaced(context.Context, events.BetPlaced) error       { return nil }
func (NopPublisher) PublishIssueUpdated(context.Context, events.IssueUpdated) error { return nil }

// KafkaPublisher publica cada evento no seu tópico, com a issue como chave
type KafkaPublisher struct {
	BetPlaced    kafka.MessageWriter
	IssueUpdated kafka.MessageWriter
}

func NewKafkaPublisher(betPlaced, issueUpdated kafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{BetPlaced: betPlaced, IssueUpdated: issueUpdated}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.BetPlaced, strconv.FormatInt(e.IssueID, 10), b)
}

func (p *KafkaPublisher) PublishIssueUpdated(ctx context.Context, e events.IssueUpdated) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.IssueUpdated, strconv.FormatInt(e.IssueID, 10), b)
}

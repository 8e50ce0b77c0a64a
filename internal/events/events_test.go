package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(EventBidPlaced, "auction:3", BidPlacedPayload{
		AuctionID: 3, BidID: 9, BidderID: 4, Amount: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, Producer, env.Producer)

	var p BidPlacedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, uint(9), p.BidID)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("120.5")))
}

func TestEmitRecordsAndLogs(t *testing.T) {
	log, hook := test.NewNullLogger()
	rec := &Recorder{}

	Emit(context.Background(), rec, log, EventOrderCompleted, "order:1", OrderPayload{OrderID: 1})
	Emit(context.Background(), nil, log, EventOrderCompleted, "order:2", OrderPayload{OrderID: 2})
	assert.Equal(t, []string{EventOrderCompleted}, rec.Types())
	assert.Empty(t, hook.Entries)

	require.NoError(t, LogPublisher{Log: log}.Publish(context.Background(), rec.Events()[0]))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, EventOrderCompleted, hook.LastEntry().Data["event_type"])
}

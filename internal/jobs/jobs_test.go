package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls  atomic.Int32
	closed int
	err    error
}

func (f *fakeSweeper) CloseExpired(ctx context.Context) (int, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep must run with a deadline")
	}
	return f.closed, f.err
}

func TestAuctionCloserLogsOutcome(t *testing.T) {
	log, hook := test.NewNullLogger()

	NewAuctionCloser(&fakeSweeper{closed: 2}, log).Run()
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["closed"])

	hook.Reset()
	NewAuctionCloser(&fakeSweeper{}, log).Run()
	assert.Empty(t, hook.Entries, "quiet when nothing expired")

	NewAuctionCloser(&fakeSweeper{err: errors.New("db down")}, log).Run()
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestStartSchedulesSweeps(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := &fakeSweeper{}

	c, err := Start("@every 1s", s, log)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return s.calls.Load() >= 1 }, 4*time.Second, 50*time.Millisecond)
}

func TestStartRejectsBadSpec(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Start("every minute please", &fakeSweeper{}, log)
	assert.Error(t, err)
}

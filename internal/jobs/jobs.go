// Package jobs runs the background auction closer on a cron schedule.
package jobs

import (
	"context"
	"time"

	"artmarket-app/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSweepSpec = "@every 1m"
	sweepTimeout     = 30 * time.Second
)

// Sweeper closes auctions whose end time has passed.
type Sweeper interface {
	CloseExpired(ctx context.Context) (int, error)
}

// AuctionCloser is a cron.Job around a Sweeper.
type AuctionCloser struct {
	sweeper Sweeper
	log     logrus.FieldLogger
}

func NewAuctionCloser(s Sweeper, log logrus.FieldLogger) *AuctionCloser {
	return &AuctionCloser{sweeper: s, log: log.WithField("job", "auction_closer")}
}

func (j *AuctionCloser) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := j.sweeper.CloseExpired(ctx)
	metrics.RecordSweep(err == nil)
	if err != nil {
		j.log.WithError(err).WithField("closed", n).Error("auction sweep failed")
		return
	}
	if n > 0 {
		j.log.WithField("closed", n).Info("expired auctions closed")
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.WithFields(fields(kv)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.WithFields(fields(kv)).WithError(err).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}

// Start schedules the closer. Overlapping runs are skipped. Stop the
// returned scheduler on shutdown.
func Start(spec string, s Sweeper, log logrus.FieldLogger) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	cl := cronLogger{log: log.WithField("component", "cron")}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddJob(spec, NewAuctionCloser(s, log)); err != nil {
		return nil, err
	}
	c.Start()
	log.WithField("spec", spec).Info("auction closer scheduled")
	return c, nil
}

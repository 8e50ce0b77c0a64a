package commissions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

func TestHappyPathStampsCompletion(t *testing.T) {
	o := CustomArtOrder{Status: StatusPending}
	for _, s := range []string{StatusAccepted, StatusInProgress} {
		require.NoError(t, o.Transition(s, now))
		assert.Nil(t, o.CompletedAt)
	}
	require.NoError(t, o.Transition(StatusCompleted, now))
	require.NotNil(t, o.CompletedAt)
	assert.Equal(t, now, *o.CompletedAt)
}

func TestRejectBranches(t *testing.T) {
	for _, from := range []string{StatusPending, StatusAccepted} {
		o := CustomArtOrder{Status: from}
		require.NoError(t, o.Transition(StatusRejected, now))
		assert.Nil(t, o.CompletedAt)
	}

	o := CustomArtOrder{Status: StatusInProgress}
	assert.ErrorIs(t, o.Transition(StatusRejected, now), ErrInvalidTransition)
}

func TestCompletedAtOnlyWhenCompleted(t *testing.T) {
	all := []string{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected}
	for _, from := range all {
		for _, to := range all {
			o := CustomArtOrder{Status: from}
			err := o.Transition(to, now)
			if err != nil {
				assert.Equal(t, from, o.Status)
			}
			assert.Equal(t, o.Status == StatusCompleted && from != StatusCompleted, o.CompletedAt != nil,
				"%s -> %s", from, to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	o := CustomArtOrder{Status: StatusCompleted}
	assert.ErrorIs(t, o.Transition(StatusInProgress, now), ErrInvalidTransition)
	o = CustomArtOrder{Status: StatusRejected}
	assert.ErrorIs(t, o.Transition(StatusAccepted, now), ErrInvalidTransition)
	assert.ErrorIs(t, o.Transition("done", now), ErrUnknownStatus)
}

func TestManageableBy(t *testing.T) {
	artist := uint(4)
	other := uint(5)
	o := CustomArtOrder{Status: StatusPending}
	assert.True(t, o.ManageableBy(artist))

	o.AssignedArtistID = &artist
	assert.True(t, o.ManageableBy(artist))
	assert.False(t, o.ManageableBy(other))

	o = CustomArtOrder{Status: StatusAccepted}
	assert.False(t, o.ManageableBy(artist))
}

func TestVisibleTo(t *testing.T) {
	artist := uint(4)
	o := CustomArtOrder{UserID: 1, AssignedArtistID: &artist}
	assert.True(t, o.VisibleTo(1))
	assert.True(t, o.VisibleTo(4))
	assert.False(t, o.VisibleTo(9))
}

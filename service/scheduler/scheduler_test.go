package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRunAt(t *testing.T) {
	at, err := parseRunAt("01:30")
	require.NoError(t, err)
	assert.Equal(t, 1, at.hour)
	assert.Equal(t, 30, at.minute)

	_, err = parseRunAt("25:00")
	assert.Error(t, err)

	_, err = parseRunAt("0300")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	s := &Scheduler{location: loc}
	next := s.nextRun(runAt{hour: 3, minute: 0})

	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now().In(loc)))
	assert.True(t, next.Sub(time.Now().In(loc)) <= 24*time.Hour)
}

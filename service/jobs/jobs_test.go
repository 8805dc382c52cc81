package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginAndDone(t *testing.T) {
	r := NewRegistry()

	handle, err := r.Begin(KindAggregation)
	require.NoError(t, err)
	assert.NotEmpty(t, handle.JobID())

	handle.Done()

	again, err := r.Begin(KindAggregation)
	require.NoError(t, err)
	assert.NotEqual(t, handle.JobID(), again.JobID())
}

func TestBeginConflict(t *testing.T) {
	r := NewRegistry()

	first, err := r.Begin(KindExtraction)
	require.NoError(t, err)
	defer first.Done()

	_, err = r.Begin(KindExtraction)
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, KindExtraction, conflict.Kind)
	assert.Equal(t, first.JobID(), conflict.JobID)
}

func TestDifferentKindsDoNotConflict(t *testing.T) {
	r := NewRegistry()

	first, err := r.Begin(KindAggregation)
	require.NoError(t, err)
	defer first.Done()

	second, err := r.Begin(KindCompareKBSync)
	require.NoError(t, err)
	second.Done()
}

func TestStaleHandleDoesNotClearNewerJob(t *testing.T) {
	r := NewRegistry()

	first, err := r.Begin(KindScenarioSync)
	require.NoError(t, err)
	first.Done()

	second, err := r.Begin(KindScenarioSync)
	require.NoError(t, err)

	// 过期Handle重复清除不得影响新登记
	r.clear(first.kind, first.jobID)

	_, err = r.Begin(KindScenarioSync)
	require.Error(t, err)

	second.Done()
	_, err = r.Begin(KindScenarioSync)
	assert.NoError(t, err)
}

func TestBeginRecyclesDeadEntry(t *testing.T) {
	r := NewRegistry()

	first, err := r.Begin(KindAggregation)
	require.NoError(t, err)

	// 模拟任务协程结束但登记未清除
	close(first.done)

	second, err := r.Begin(KindAggregation)
	require.NoError(t, err)
	assert.NotEqual(t, first.JobID(), second.JobID())
}

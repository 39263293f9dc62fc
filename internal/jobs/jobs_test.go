package jobs

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexhq/sourcer/internal/lead"
)

var target = lead.SeedTarget{
	URL:      "https://github.com/vercel/ai",
	Category: lead.CategorySDKs,
}

func TestJobLifecycle(t *testing.T) {
	store := NewStore()

	id := store.Create(target)
	job, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatePending, job.State)
	assert.Equal(t, target, job.Target)

	require.NoError(t, store.SetRunning(id))
	job, _ = store.Get(id)
	assert.Equal(t, StateRunning, job.State)
	assert.False(t, job.StartedAt.IsZero())

	summary := &lead.SourcingRun{TotalLeadsFound: 3, TotalLeadsPersisted: 2}
	require.NoError(t, store.Complete(id, summary))
	job, _ = store.Get(id)
	assert.Equal(t, StateDone, job.State)
	assert.Equal(t, 3, job.Summary.TotalLeadsFound)
	assert.False(t, job.CompletedAt.IsZero())
}

func TestJobFailure(t *testing.T) {
	store := NewStore()
	id := store.Create(target)

	require.NoError(t, store.SetRunning(id))
	require.NoError(t, store.Fail(id, "store unreachable"))

	job, _ := store.Get(id)
	assert.Equal(t, StateFailed, job.State)
	assert.Equal(t, "store unreachable", job.Err)
}

func TestInvalidTransitions(t *testing.T) {
	store := NewStore()
	id := store.Create(target)

	// Cannot complete or fail a pending job.
	assert.Error(t, store.Complete(id, nil))
	assert.Error(t, store.Fail(id, "nope"))

	require.NoError(t, store.SetRunning(id))
	assert.Error(t, store.SetRunning(id), "cannot start a running job twice")

	require.NoError(t, store.Complete(id, &lead.SourcingRun{}))
	assert.Error(t, store.Fail(id, "too late"))
}

func TestJobJSONCarriesTimestamps(t *testing.T) {
	store := NewStore()
	id := store.Create(target)
	job, err := store.Get(id)
	require.NoError(t, err)

	// Zero timestamps serialize explicitly; consumers see every phase field.
	data, err := json.Marshal(job)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"started_at"`)
	assert.Contains(t, string(data), `"completed_at"`)
}

func TestUnknownJob(t *testing.T) {
	store := NewStore()
	_, err := store.Get("nope")
	assert.Error(t, err)
	assert.Error(t, store.SetRunning("nope"))
}

func TestListOrdersByCreation(t *testing.T) {
	store := NewStore()
	first := store.Create(target)
	second := store.Create(target)
	third := store.Create(target)

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{first, second, third},
		[]string{list[0].ID, list[1].ID, list[2].ID})
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := store.Create(target)
			require.NoError(t, store.SetRunning(id))
			require.NoError(t, store.Complete(id, &lead.SourcingRun{}))
			store.List()
		}()
	}
	wg.Wait()

	assert.Len(t, store.List(), 16)
}

// Package jobs provides an in-memory registry of bulk scan jobs, one per
// seed target. Handlers and the CLI interact with job records through this
// store rather than sharing a mutable map.
package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tenexhq/sourcer/internal/lead"
)

// State is the lifecycle phase of a job.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Job tracks one scan of one seed target.
type Job struct {
	ID          string            `json:"id"`
	Target      lead.SeedTarget   `json:"target"`
	State       State             `json:"state"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Summary     *lead.SourcingRun `json:"summary,omitempty"`
	Err         string            `json:"error,omitempty"`

	// seq orders jobs created within the same clock tick.
	seq int
}

// Store is a concurrency-safe registry of jobs keyed by id.
type Store struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	nextSeq int
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a pending job for a target and returns its id.
func (s *Store) Create(target lead.SeedTarget) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.jobs[id] = &Job{
		ID:        id,
		Target:    target,
		State:     StatePending,
		CreatedAt: time.Now(),
		seq:       s.nextSeq,
	}
	s.nextSeq++
	return id
}

// Get returns a copy of the job, or an error if the id is unknown.
func (s *Store) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("unknown job %s", id)
	}
	return *job, nil
}

// List returns copies of all jobs ordered by creation time.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		list = append(list, *job)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].seq < list[j].seq
	})
	return list
}

// SetRunning transitions a pending job to running.
func (s *Store) SetRunning(id string) error {
	return s.update(id, func(job *Job) error {
		if job.State != StatePending {
			return fmt.Errorf("job %s is %s, expected %s", id, job.State, StatePending)
		}
		job.State = StateRunning
		job.StartedAt = time.Now()
		return nil
	})
}

// Complete transitions a running job to done with its run summary.
func (s *Store) Complete(id string, summary *lead.SourcingRun) error {
	return s.update(id, func(job *Job) error {
		if job.State != StateRunning {
			return fmt.Errorf("job %s is %s, expected %s", id, job.State, StateRunning)
		}
		job.State = StateDone
		job.CompletedAt = time.Now()
		job.Summary = summary
		return nil
	})
}

// Fail transitions a running job to failed with an error message.
func (s *Store) Fail(id string, errMsg string) error {
	return s.update(id, func(job *Job) error {
		if job.State != StateRunning {
			return fmt.Errorf("job %s is %s, expected %s", id, job.State, StateRunning)
		}
		job.State = StateFailed
		job.CompletedAt = time.Now()
		job.Err = errMsg
		return nil
	})
}

func (s *Store) update(id string, fn func(*Job) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job %s", id)
	}
	return fn(job)
}

package stub

import (
	"cmp"
	"slices"
	"sync"
)

const DefaultQueue = "default"

type queueState struct {
	tasks      map[string]StoredTask
	registered int
	deleted    int
}

// TaskStorage keeps registered tasks per queue. Load test runs use one queue
// each so their counters never mix.
type TaskStorage struct {
	mu     sync.RWMutex
	queues map[string]*queueState
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{queues: make(map[string]*queueState)}
}

func (s *TaskStorage) queue(name string) *queueState {
	q, ok := s.queues[name]
	if !ok {
		q = &queueState{tasks: make(map[string]StoredTask)}
		s.queues[name] = q
	}
	return q
}

// Put stores the task, replacing an earlier registration under the same name.
func (s *TaskStorage) Put(task StoredTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queue(task.Queue)
	q.tasks[task.Name] = task
	q.registered++
}

// Delete reports false when the task is unknown.
func (s *TaskStorage) Delete(queue, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queue(queue)
	if _, ok := q.tasks[name]; !ok {
		return false
	}
	delete(q.tasks, name)
	q.deleted++
	return true
}

// List returns the queue's tasks ordered by schedule time.
func (s *TaskStorage) List(queue string) TasksResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := TasksResponse{Queue: queue, Tasks: []StoredTask{}}
	q, ok := s.queues[queue]
	if !ok {
		return resp
	}

	for _, t := range q.tasks {
		resp.Tasks = append(resp.Tasks, t)
	}
	slices.SortFunc(resp.Tasks, func(a, b StoredTask) int {
		if c := a.ScheduleTime.Compare(b.ScheduleTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	resp.Count = len(resp.Tasks)
	resp.Registered = q.registered
	resp.Deleted = q.deleted
	return resp
}

func (s *TaskStorage) Reset(queue string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, queue)
}

func (s *TaskStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues = make(map[string]*queueState)
}

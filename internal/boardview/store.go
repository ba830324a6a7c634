package boardview

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Task is the view-model projection of one task row.
type Task struct {
	ID       uuid.UUID `json:"id"`
	ListID   uuid.UUID `json:"list_id"`
	Title    string    `json:"title"`
	Priority string    `json:"priority"`
	Position int       `json:"position"`
}

// List is the view-model projection of one list and its ordered tasks.
type List struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
	Tasks    []Task    `json:"tasks"`
}

// Revert undoes a single optimistic edit. Calling it more than once is
// harmless; it restores the state captured when the edit was applied.
type Revert func()

// Store is an in-memory mirror of one board, kept current by applying
// broadcast events and local optimistic edits. It is a view model, not
// a system of record. Merge rules are idempotent: adding an entity that
// already exists is a no-op, updating or removing a missing entity is a
// no-op, and a move first removes the task from every list before
// inserting it at the target index.
type Store struct {
	mu      sync.RWMutex
	boardID uuid.UUID
	lists   []List
}

func NewStore(boardID uuid.UUID) *Store {
	return &Store{boardID: boardID}
}

func (s *Store) BoardID() uuid.UUID {
	return s.boardID
}

// Load replaces the whole mirror with server state, used on initial
// board open and on resynchronization after a failed edit.
func (s *Store) Load(lists []List) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists = make([]List, len(lists))
	for i, l := range lists {
		s.lists[i] = cloneList(l)
	}
	sort.SliceStable(s.lists, func(i, j int) bool {
		return s.lists[i].Position < s.lists[j].Position
	})
}

// Lists returns a deep copy of the current mirror in list order.
func (s *Store) Lists() []List {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]List, len(s.lists))
	for i, l := range s.lists {
		out[i] = cloneList(l)
	}
	return out
}

// ApplyListCreated inserts a list; a list with the same id already
// present is left untouched.
func (s *Store) ApplyListCreated(list List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addList(list)
}

// ApplyListUpdated renames a list; unknown ids are ignored.
func (s *Store) ApplyListUpdated(listID uuid.UUID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.findList(listID); l != nil {
		l.Title = title
	}
}

// ApplyListDeleted drops a list and everything in it.
func (s *Store) ApplyListDeleted(listID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeList(listID)
}

// ApplyTaskCreated inserts a task into its list at its stated position;
// a task with the same id already present anywhere is left untouched.
func (s *Store) ApplyTaskCreated(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addTask(task)
}

// ApplyTaskUpdated replaces a task's fields in place; unknown ids are
// ignored. Position and list changes arrive as task_moved, not here.
func (s *Store) ApplyTaskUpdated(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, i := s.locateTask(task.ID)
	if l == nil {
		return
	}
	task.ListID = l.Tasks[i].ListID
	task.Position = l.Tasks[i].Position
	l.Tasks[i] = task
}

// ApplyTaskDeleted removes a task wherever it sits and closes the gap.
func (s *Store) ApplyTaskDeleted(taskID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeTask(taskID)
}

// ApplyTaskMoved removes the task from every list, then inserts it into
// the destination at the given index clamped to the list's bounds. Both
// affected lists end up densely renumbered.
func (s *Store) ApplyTaskMoved(taskID, listID uuid.UUID, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveTask(taskID, listID, index)
}

// OptimisticAddTask applies a local create before the server confirms
// it and returns the inverse patch.
func (s *Store) OptimisticAddTask(task Task) Revert {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.addTask(task) {
		return func() {}
	}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.removeTask(task.ID)
	}
}

// OptimisticUpdateTask applies a local field edit and returns a patch
// restoring the prior field values.
func (s *Store) OptimisticUpdateTask(task Task) Revert {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, i := s.locateTask(task.ID)
	if l == nil {
		return func() {}
	}
	prev := l.Tasks[i]
	task.ListID = prev.ListID
	task.Position = prev.Position
	l.Tasks[i] = task

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l, i := s.locateTask(prev.ID); l != nil {
			l.Tasks[i] = prev
		}
	}
}

// OptimisticMoveTask applies a local drag-and-drop move and returns a
// patch that restores the source and destination lists exactly as they
// were, so a rejected move does not need a full board reload.
func (s *Store) OptimisticMoveTask(taskID, listID uuid.UUID, index int) Revert {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, _ := s.locateTask(taskID)
	dst := s.findList(listID)
	if src == nil || dst == nil {
		return func() {}
	}

	before := map[uuid.UUID][]Task{
		src.ID: cloneTasks(src.Tasks),
		dst.ID: cloneTasks(dst.Tasks),
	}
	s.moveTask(taskID, listID, index)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for listID, tasks := range before {
			if l := s.findList(listID); l != nil {
				l.Tasks = cloneTasks(tasks)
			}
		}
	}
}

// OptimisticDeleteTask removes a task locally and returns a patch that
// puts it back at its old position.
func (s *Store) OptimisticDeleteTask(taskID uuid.UUID) Revert {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.removeTask(taskID)
	if !ok {
		return func() {}
	}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.addTask(removed)
	}
}

func (s *Store) findList(listID uuid.UUID) *List {
	for i := range s.lists {
		if s.lists[i].ID == listID {
			return &s.lists[i]
		}
	}
	return nil
}

func (s *Store) locateTask(taskID uuid.UUID) (*List, int) {
	for i := range s.lists {
		for j := range s.lists[i].Tasks {
			if s.lists[i].Tasks[j].ID == taskID {
				return &s.lists[i], j
			}
		}
	}
	return nil, -1
}

func (s *Store) addList(list List) bool {
	if s.findList(list.ID) != nil {
		return false
	}
	s.lists = append(s.lists, cloneList(list))
	sort.SliceStable(s.lists, func(i, j int) bool {
		return s.lists[i].Position < s.lists[j].Position
	})
	return true
}

func (s *Store) removeList(listID uuid.UUID) {
	for i := range s.lists {
		if s.lists[i].ID == listID {
			s.lists = append(s.lists[:i], s.lists[i+1:]...)
			return
		}
	}
}

func (s *Store) addTask(task Task) bool {
	if l, _ := s.locateTask(task.ID); l != nil {
		return false
	}
	l := s.findList(task.ListID)
	if l == nil {
		return false
	}
	idx := clamp(task.Position, 0, len(l.Tasks))
	l.Tasks = append(l.Tasks, Task{})
	copy(l.Tasks[idx+1:], l.Tasks[idx:])
	l.Tasks[idx] = task
	renumber(l)
	return true
}

func (s *Store) removeTask(taskID uuid.UUID) (Task, bool) {
	l, i := s.locateTask(taskID)
	if l == nil {
		return Task{}, false
	}
	removed := l.Tasks[i]
	l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
	renumber(l)
	return removed, true
}

func (s *Store) moveTask(taskID, listID uuid.UUID, index int) {
	dst := s.findList(listID)
	if dst == nil {
		return
	}
	removed, ok := s.removeTask(taskID)
	if !ok {
		return
	}
	idx := clamp(index, 0, len(dst.Tasks))
	removed.ListID = dst.ID
	dst.Tasks = append(dst.Tasks, Task{})
	copy(dst.Tasks[idx+1:], dst.Tasks[idx:])
	dst.Tasks[idx] = removed
	renumber(dst)
}

func renumber(l *List) {
	for i := range l.Tasks {
		l.Tasks[i].Position = i
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cloneList(l List) List {
	out := l
	out.Tasks = cloneTasks(l.Tasks)
	return out
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

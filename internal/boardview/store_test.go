package boardview

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, listTitles []string, tasksPerList []int) (*Store, []uuid.UUID) {
	t.Helper()
	require.Equal(t, len(listTitles), len(tasksPerList))

	store := NewStore(uuid.New())
	listIDs := make([]uuid.UUID, len(listTitles))
	lists := make([]List, len(listTitles))
	for i, title := range listTitles {
		listIDs[i] = uuid.New()
		tasks := make([]Task, tasksPerList[i])
		for j := range tasks {
			tasks[j] = Task{ID: uuid.New(), ListID: listIDs[i], Title: "task", Position: j}
		}
		lists[i] = List{ID: listIDs[i], Title: title, Position: i, Tasks: tasks}
	}
	store.Load(lists)
	return store, listIDs
}

func positions(t *testing.T, store *Store, listID uuid.UUID) []int {
	t.Helper()
	for _, l := range store.Lists() {
		if l.ID == listID {
			out := make([]int, len(l.Tasks))
			for i, task := range l.Tasks {
				out[i] = task.Position
			}
			return out
		}
	}
	t.Fatalf("list %s not found", listID)
	return nil
}

func taskIDs(t *testing.T, store *Store, listID uuid.UUID) []uuid.UUID {
	t.Helper()
	for _, l := range store.Lists() {
		if l.ID == listID {
			out := make([]uuid.UUID, len(l.Tasks))
			for i, task := range l.Tasks {
				out[i] = task.ID
			}
			return out
		}
	}
	t.Fatalf("list %s not found", listID)
	return nil
}

func TestStoreMoveKeepsPositionsDense(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo", "Doing"}, []int{4, 3})
	moved := taskIDs(t, store, listIDs[0])[1]

	// Act
	store.ApplyTaskMoved(moved, listIDs[1], 1)

	// Assert
	assert.Equal(t, []int{0, 1, 2}, positions(t, store, listIDs[0]))
	assert.Equal(t, []int{0, 1, 2, 3}, positions(t, store, listIDs[1]))
	assert.Equal(t, moved, taskIDs(t, store, listIDs[1])[1])
}

func TestStoreMoveToSamePositionIsIdempotent(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo"}, []int{5})
	before := taskIDs(t, store, listIDs[0])

	// Act
	store.ApplyTaskMoved(before[2], listIDs[0], 2)

	// Assert
	assert.Equal(t, before, taskIDs(t, store, listIDs[0]))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, positions(t, store, listIDs[0]))
}

func TestStoreMoveThereAndBackRestoresBothLists(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo", "Doing"}, []int{4, 3})
	beforeTodo := taskIDs(t, store, listIDs[0])
	beforeDoing := taskIDs(t, store, listIDs[1])
	moved := beforeTodo[1]

	// Act
	store.ApplyTaskMoved(moved, listIDs[1], 0)
	store.ApplyTaskMoved(moved, listIDs[0], 1)

	// Assert
	assert.Equal(t, beforeTodo, taskIDs(t, store, listIDs[0]))
	assert.Equal(t, beforeDoing, taskIDs(t, store, listIDs[1]))
	assert.Equal(t, []int{0, 1, 2, 3}, positions(t, store, listIDs[0]))
	assert.Equal(t, []int{0, 1, 2}, positions(t, store, listIDs[1]))
}

func TestStoreMoveClampsOutOfRangeIndex(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo", "Doing"}, []int{2, 2})
	moved := taskIDs(t, store, listIDs[0])[0]

	// Act
	store.ApplyTaskMoved(moved, listIDs[1], 99)

	// Assert
	ids := taskIDs(t, store, listIDs[1])
	assert.Equal(t, moved, ids[len(ids)-1])
	assert.Equal(t, []int{0, 1, 2}, positions(t, store, listIDs[1]))
}

func TestStoreDuplicateCreateIsNoOp(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo"}, []int{2})
	existing := taskIDs(t, store, listIDs[0])[0]

	// Act: the same broadcast arrives twice
	store.ApplyTaskCreated(Task{ID: existing, ListID: listIDs[0], Title: "dupe", Position: 0})

	// Assert
	assert.Equal(t, []int{0, 1}, positions(t, store, listIDs[0]))
	lists := store.Lists()
	assert.NotEqual(t, "dupe", lists[0].Tasks[0].Title)
}

func TestStoreUpdateMissingTaskIsNoOp(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo"}, []int{1})

	// Act
	store.ApplyTaskUpdated(Task{ID: uuid.New(), ListID: listIDs[0], Title: "ghost"})
	store.ApplyTaskDeleted(uuid.New())

	// Assert
	assert.Equal(t, []int{0}, positions(t, store, listIDs[0]))
}

func TestStoreListLifecycle(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo"}, []int{1})
	doing := List{ID: uuid.New(), Title: "Doing", Position: 1}

	// Act
	store.ApplyListCreated(doing)
	store.ApplyListCreated(doing) // duplicate broadcast
	store.ApplyListUpdated(doing.ID, "In Progress")
	store.ApplyListDeleted(listIDs[0])

	// Assert
	lists := store.Lists()
	require.Len(t, lists, 1)
	assert.Equal(t, "In Progress", lists[0].Title)
}

func TestStoreOptimisticMoveRevertRestoresState(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo", "Doing"}, []int{3, 2})
	beforeTodo := taskIDs(t, store, listIDs[0])
	beforeDoing := taskIDs(t, store, listIDs[1])

	// Act
	revert := store.OptimisticMoveTask(beforeTodo[0], listIDs[1], 1)
	require.NotEqual(t, beforeDoing, taskIDs(t, store, listIDs[1]))
	revert()

	// Assert
	assert.Equal(t, beforeTodo, taskIDs(t, store, listIDs[0]))
	assert.Equal(t, beforeDoing, taskIDs(t, store, listIDs[1]))
	assert.Equal(t, []int{0, 1, 2}, positions(t, store, listIDs[0]))
}

func TestStoreOptimisticAddAndDeleteReverts(t *testing.T) {
	// Arrange
	store, listIDs := newBoard(t, []string{"Todo"}, []int{2})
	before := taskIDs(t, store, listIDs[0])

	// Act
	revertAdd := store.OptimisticAddTask(Task{ID: uuid.New(), ListID: listIDs[0], Title: "draft", Position: 1})
	revertAdd()

	revertDelete := store.OptimisticDeleteTask(before[0])
	revertDelete()

	// Assert
	assert.Equal(t, before, taskIDs(t, store, listIDs[0]))
	assert.Equal(t, []int{0, 1}, positions(t, store, listIDs[0]))
}

func TestStoreSprintScenario(t *testing.T) {
	// Arrange: board "Sprint 1" with two fresh lists
	store := NewStore(uuid.New())
	todo := List{ID: uuid.New(), Title: "Todo", Position: 0}
	doing := List{ID: uuid.New(), Title: "Doing", Position: 1}
	store.ApplyListCreated(todo)
	store.ApplyListCreated(doing)

	task := Task{ID: uuid.New(), ListID: todo.ID, Title: "Fix bug", Position: 0}
	store.ApplyTaskCreated(task)

	// Act
	store.ApplyTaskMoved(task.ID, doing.ID, 0)

	// Assert
	lists := store.Lists()
	require.Len(t, lists, 2)
	assert.Empty(t, lists[0].Tasks)
	require.Len(t, lists[1].Tasks, 1)
	assert.Equal(t, "Fix bug", lists[1].Tasks[0].Title)
	assert.Equal(t, 0, lists[1].Tasks[0].Position)
	assert.Equal(t, doing.ID, lists[1].Tasks[0].ListID)
}

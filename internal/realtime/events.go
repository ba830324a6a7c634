package realtime

// Event names broadcast into board rooms after successful mutations.
// Clients key their store updates off Type.
const (
	EventBoardUpdated   = "board_updated"
	EventBoardDeleted   = "board_deleted"
	EventMemberAdded    = "member_added"
	EventListCreated    = "list_created"
	EventListUpdated    = "list_updated"
	EventListDeleted    = "list_deleted"
	EventTaskCreated    = "task_created"
	EventTaskUpdated    = "task_updated"
	EventTaskMoved      = "task_moved"
	EventTaskDeleted    = "task_deleted"
	EventTaskAssigned   = "task_assigned"
	EventTaskUnassigned = "task_unassigned"
	EventUserOnline     = "user_online"
	EventUserOffline    = "user_offline"
)

// Event is the wire frame sent to subscribed connections.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

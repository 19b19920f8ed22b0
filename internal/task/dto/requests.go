package dto

// BoardNameRequest is the body of board create and rename.
type BoardNameRequest struct {
	Name string `json:"name"`
}

// MoveTaskRequest is the body of a status move.
type MoveTaskRequest struct {
	Status string `json:"status"`
}

// SuccessResponse acknowledges mutations that return no entity.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ListTasksRequest is the payload of the task.list WebSocket action.
type ListTasksRequest struct {
	BoardID string `json:"boardId"`
}

// WSMoveTaskRequest is the payload of the task.move WebSocket action.
type WSMoveTaskRequest struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

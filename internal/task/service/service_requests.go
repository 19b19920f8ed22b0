package service

// UpsertTaskRequest creates a task when ID is empty and edits the task with
// that id otherwise. Nil fields are left untouched on edit; on create,
// Title is required and Status defaults to Pending.
type UpsertTaskRequest struct {
	ID          string  `json:"id,omitempty"`
	BoardID     string  `json:"boardId,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

type taskFields struct {
	Title  string `json:"title" validate:"min=2"`
	Status string `json:"status" validate:"oneof=Pending Critical Urgent Complete"`
}

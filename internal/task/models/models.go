package models

import (
	"strings"
	"time"
)

// TaskStatus is the column a task sits in.
type TaskStatus string

const (
	StatusPending  TaskStatus = "Pending"
	StatusCritical TaskStatus = "Critical"
	StatusUrgent   TaskStatus = "Urgent"
	StatusComplete TaskStatus = "Complete"
)

// Statuses lists every status in column order.
var Statuses = []TaskStatus{StatusPending, StatusCritical, StatusUrgent, StatusComplete}

// Valid reports whether s is one of the four column statuses.
func (s TaskStatus) Valid() bool {
	return s.Index() >= 0
}

// Index returns the column position of s, or -1.
func (s TaskStatus) Index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStatus matches s against the column statuses, ignoring case and
// surrounding whitespace.
func ParseStatus(s string) (TaskStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// TimestampLayout is the persisted timestamp format: RFC 3339, UTC,
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimestampLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Board groups tasks.
type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// Task is a unit of work on exactly one board.
type Task struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
	IsDeleted   bool       `json:"isDeleted,omitempty"`
}

// BoardStats summarises one board for the dashboard.
type BoardStats struct {
	BoardID string `json:"boardId"`
	Name    string `json:"name"`
	Total   int    `json:"total"`
	Done    int    `json:"done"`
}

// Stats are the dashboard figures.
type Stats struct {
	TotalBoards int                `json:"totalBoards"`
	TotalTasks  int                `json:"totalTasks"`
	ByStatus    map[TaskStatus]int `json:"byStatus"`
	Boards      []BoardStats       `json:"boards"`
	Recent      []Task             `json:"recent"`
}

// Package events defines the subjects published after every successful
// store mutation.
package events

// Board events
const (
	BoardCreated = "board.created"
	BoardUpdated = "board.updated"
	BoardDeleted = "board.deleted"
)

// Task events
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskMoved   = "task.moved"
	TaskDeleted = "task.deleted"
)

// Data management events
const (
	DataImported = "data.imported"
	DataCleared  = "data.cleared"
	DataSeeded   = "data.seeded"
)

// Auth events
const (
	AuthLoggedIn  = "auth.logged_in"
	AuthLoggedOut = "auth.logged_out"
)

// Wildcards
const (
	AllBoardEvents = "board.*"
	AllTaskEvents  = "task.*"
	AllDataEvents  = "data.*"
	AllAuthEvents  = "auth.*"
	AllEvents      = ">"
)

package models

import (
	"encoding/json"

	authmodels "github.com/shifa-s11/board-task/internal/auth/models"
	taskmodels "github.com/shifa-s11/board-task/internal/task/models"
)

// ExportName and ExportVersion identify export files.
const (
	ExportName    = "FlowLabel Export"
	ExportVersion = 1
)

// Prefs are the user interface preferences.
type Prefs struct {
	CompactMode   bool `json:"compactMode"`
	Notifications bool `json:"notifications"`
}

// DefaultPrefs returns the preferences used when none are stored.
func DefaultPrefs() Prefs {
	return Prefs{CompactMode: false, Notifications: true}
}

// ExportMeta describes an export file.
type ExportMeta struct {
	Name       string `json:"name"`
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt"`
}

// ExportData holds every persisted key.
type ExportData struct {
	Auth    *string             `json:"auth"`
	Profile *authmodels.Profile `json:"profile"`
	Boards  []taskmodels.Board  `json:"boards"`
	Tasks   []taskmodels.Task   `json:"tasks"`
	Prefs   Prefs               `json:"prefs"`
}

// Payload is the export/import interchange document.
type Payload struct {
	Meta ExportMeta `json:"meta"`
	Data ExportData `json:"data"`
}

// ImportData is an import document decoded key by key, so that a present
// key can be told apart from a missing one.
type ImportData map[string]json.RawMessage

// ImportResult lists the keys an import overwrote.
type ImportResult struct {
	Applied []string `json:"applied"`
}

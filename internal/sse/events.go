package sse

import (
	"encoding/json"

	"github.com/scsmith60/messhall/internal/model"
)

const (
	EventReload     = "reload"
	EventSaveStatus = "save-status"
)

type event struct {
	Type   string            `json:"type"`
	Status *model.SaveStatus `json:"status,omitempty"`
}

// ReloadEvent tells watchers the recipe changed underneath them.
func ReloadEvent() string {
	return marshalEvent(event{Type: EventReload})
}

// SaveStatusEvent carries an autosave status transition to watchers.
func SaveStatusEvent(status model.SaveStatus) string {
	return marshalEvent(event{Type: EventSaveStatus, Status: &status})
}

func marshalEvent(e event) string {
	data, err := json.Marshal(e)
	if err != nil {
		// Events hold no unmarshalable types, so this never fires.
		return `{"type":"` + e.Type + `"}`
	}
	return string(data)
}

package model

import "time"

// SaveState is the lifecycle of an autosaved edit session. It is
// process-local UI state and is never persisted.
type SaveState string

const (
	SaveStateIdle   SaveState = "idle"
	SaveStateSaving SaveState = "saving"
	SaveStateSaved  SaveState = "saved"
	SaveStateError  SaveState = "error"
)

// SaveStatus pairs a SaveState with its optional error detail. Error is
// only set while State is SaveStateError and sticks until the next
// successful save.
type SaveStatus struct {
	State     SaveState `json:"state"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Idle() SaveStatus {
	return SaveStatus{State: SaveStateIdle, UpdatedAt: time.Now().UTC()}
}

func Saving() SaveStatus {
	return SaveStatus{State: SaveStateSaving, UpdatedAt: time.Now().UTC()}
}

func Saved() SaveStatus {
	return SaveStatus{State: SaveStateSaved, UpdatedAt: time.Now().UTC()}
}

func SaveError(msg string) SaveStatus {
	return SaveStatus{State: SaveStateError, Error: msg, UpdatedAt: time.Now().UTC()}
}

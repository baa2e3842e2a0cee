package ipc

import (
	"workbench/internal/api"
	"workbench/internal/workbench"
)

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// StatusResponse combines daemon and station status.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	LockPath     string             `json:"lock_path"`
	DatabasePath string             `json:"database_path"`
	APIAddress   string             `json:"api_address"`
	Workbench    workbench.Snapshot `json:"workbench"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// HIDEventRequest carries one emulated reader event.
type HIDEventRequest = workbench.HIDEvent

// HIDEventResponse reports the station state after the event.
type HIDEventResponse struct {
	State  string `json:"state"`
	Detail string `json:"detail"`
}

// UnitInfoRequest selects a unit by internal id.
type UnitInfoRequest struct {
	InternalID string `json:"internal_id"`
}

// UnitInfoResponse describes a stored unit.
type UnitInfoResponse struct {
	Unit api.UnitInfo `json:"unit"`
}

// PendingRevisionRequest lists units awaiting revision.
type PendingRevisionRequest struct{}

// PendingRevisionResponse contains the units awaiting revision.
type PendingRevisionResponse struct {
	Units []api.PendingEntry `json:"units"`
}

// NotifyRequest emits a message on the station bus.
type NotifyRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NotifyResponse reports how many subscribers received the message.
type NotifyResponse struct {
	Delivered int `json:"delivered"`
}

// PreflightRequest runs the startup checks.
type PreflightRequest struct{}

// PreflightCheck is one check outcome.
type PreflightCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
	Fatal  bool   `json:"fatal"`
}

// PreflightResponse lists every check outcome.
type PreflightResponse struct {
	Checks []PreflightCheck `json:"checks"`
}

// TestNotificationRequest triggers a push notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

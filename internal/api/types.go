package api

import (
	"workbench/internal/store"
	"workbench/internal/unit"
	"workbench/internal/workbench"
)

// GenericResponse is the body of every route that returns no payload.
type GenericResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

// OperationDetails is the body of start-operation.
type OperationDetails struct {
	AdditionalInfo map[string]string `json:"additional_info"`
}

// EndOperationDetails is the body of end-operation.
type EndOperationDetails struct {
	AdditionalInfo  map[string]string `json:"additional_info"`
	PrematureEnding bool              `json:"premature_ending"`
}

// EmployeeID identifies an employee by RFID card.
type EmployeeID struct {
	CardNo string `json:"employee_rfid_card_no"`
}

// EmployeeData is the public record of an employee.
type EmployeeData struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	RFIDCardID string `json:"rfid_card_id"`
}

// EmployeeOut carries an employee record.
type EmployeeOut struct {
	GenericResponse
	EmployeeData *EmployeeData `json:"employee_data"`
}

// UnitOut reports a created unit.
type UnitOut struct {
	GenericResponse
	UnitInternalID string `json:"unit_internal_id"`
}

// BiographyStage names one biography entry.
type BiographyStage struct {
	StageName          string `json:"stage_name"`
	StageSchemaEntryID string `json:"stage_schema_entry_id"`
}

// UnitInfo describes a stored unit.
type UnitInfo struct {
	UnitOut
	UnitStatus             string           `json:"unit_status"`
	UnitBiographyCompleted []BiographyStage `json:"unit_biography_completed"`
	UnitBiographyPending   []BiographyStage `json:"unit_biography_pending"`
	UnitComponents         []string         `json:"unit_components"`
	SchemaID               string           `json:"schema_id"`
}

// PendingEntry is one unit awaiting revision.
type PendingEntry struct {
	UnitInternalID string `json:"unit_internal_id"`
	UnitName       string `json:"unit_name"`
}

// UnitsPending lists the units awaiting revision.
type UnitsPending struct {
	GenericResponse
	Units []PendingEntry `json:"units"`
}

// PassportOut reports an uploaded passport.
type PassportOut struct {
	GenericResponse
	PassportCID  string `json:"passport_cid,omitempty"`
	PassportLink string `json:"passport_link,omitempty"`
}

// SchemaListEntry is one node of the schema picker.
type SchemaListEntry struct {
	SchemaID        string            `json:"schema_id"`
	SchemaName      string            `json:"schema_name"`
	IncludedSchemas []SchemaListEntry `json:"included_schemas"`
}

// SchemasList is the body of production-schemas/names.
type SchemasList struct {
	GenericResponse
	AvailableSchemas []SchemaListEntry `json:"available_schemas"`
}

// SchemaResponse carries one production schema.
type SchemaResponse struct {
	GenericResponse
	ProductionSchema unit.Schema `json:"production_schema"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates runtime information for the CLI.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatabasePath string             `json:"database_path"`
	LockFilePath string             `json:"lock_file_path"`
	Workbench    workbench.Snapshot `json:"workbench"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// FromUnit converts a unit into its info payload.
func FromUnit(u *unit.Unit) UnitInfo {
	info := UnitInfo{
		UnitOut: UnitOut{
			GenericResponse: GenericResponse{StatusCode: 200, Detail: "Unit data retrieved successfully"},
			UnitInternalID:  u.InternalID,
		},
		UnitStatus:             string(u.Status),
		UnitBiographyCompleted: []BiographyStage{},
		UnitBiographyPending:   []BiographyStage{},
		SchemaID:               u.Schema.SchemaID,
	}
	for _, stage := range u.Biography {
		entry := BiographyStage{StageName: stage.Name, StageSchemaEntryID: stage.SchemaStageID}
		if stage.Completed {
			info.UnitBiographyCompleted = append(info.UnitBiographyCompleted, entry)
		} else {
			info.UnitBiographyPending = append(info.UnitBiographyPending, entry)
		}
	}
	if len(u.Schema.RequiredComponentIDs) > 0 {
		info.UnitComponents = append([]string(nil), u.Schema.RequiredComponentIDs...)
	}
	return info
}

// FromSummaries converts store summaries into pending entries.
func FromSummaries(summaries []store.UnitSummary) []PendingEntry {
	out := make([]PendingEntry, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, PendingEntry{UnitInternalID: s.InternalID, UnitName: s.UnitName})
	}
	return out
}

func fromEmployee(e unit.Employee) *EmployeeData {
	return &EmployeeData{Name: e.Name, Position: e.Position, RFIDCardID: e.CardID}
}

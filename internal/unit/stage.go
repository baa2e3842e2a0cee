package unit

import (
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the day-first layout used in passports and status output.
const TimestampFormat = "02-01-2006 15:04:05"

// ProductionStage is one biography entry of a unit.
type ProductionStage struct {
	ID               string
	Name             string
	ParentUnitUUID   string
	Number           int
	SchemaStageID    string
	EmployeeCode     string
	SessionStart     *time.Time
	SessionEnd       *time.Time
	EndedPrematurely bool
	VideoHashes      []string
	Metadata         map[string]string
	Completed        bool
	CreatedAt        time.Time
}

func newStage(name, unitUUID, schemaStageID string, number int) *ProductionStage {
	return &ProductionStage{
		ID:             uuid.NewString(),
		Name:           name,
		ParentUnitUUID: unitUUID,
		Number:         number,
		SchemaStageID:  schemaStageID,
		CreatedAt:      time.Now(),
	}
}

// NewBiography creates one pending stage per schema stage, numbered from zero.
func NewBiography(schema Schema, unitUUID string) []*ProductionStage {
	biography := make([]*ProductionStage, 0, len(schema.ProductionStages))
	for i, stage := range schema.ProductionStages {
		biography = append(biography, newStage(stage.Name, unitUUID, stage.StageID, i))
	}
	return biography
}

// Duration is the time spent on the stage; an open stage counts up to now.
func (s *ProductionStage) Duration(now time.Time) time.Duration {
	if s.SessionStart == nil {
		return 0
	}
	end := now
	if s.SessionEnd != nil {
		end = *s.SessionEnd
	}
	return end.Sub(*s.SessionStart)
}

// FormatTimestamp renders t with TimestampFormat, or "" for nil.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimestampFormat)
}

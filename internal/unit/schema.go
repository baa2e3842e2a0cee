package unit

// SchemaStage is one step of a production schema.
type SchemaStage struct {
	Name            string   `json:"name" yaml:"name"`
	StageID         string   `json:"stage_id" yaml:"stage_id"`
	Type            string   `json:"type,omitempty" yaml:"type,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Equipment       []string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Workplace       string   `json:"workplace,omitempty" yaml:"workplace,omitempty"`
	DurationSeconds int      `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

// Schema describes a unit type. A nil RequiredComponentIDs means the unit is
// not composite; an empty, non-nil slice is a composite with no slots.
type Schema struct {
	SchemaID             string        `json:"schema_id" yaml:"schema_id"`
	UnitName             string        `json:"unit_name" yaml:"unit_name"`
	UnitShortName        string        `json:"unit_short_name,omitempty" yaml:"unit_short_name,omitempty"`
	ProductionStages     []SchemaStage `json:"production_stages" yaml:"production_stages"`
	RequiredComponentIDs []string      `json:"required_components_schema_ids" yaml:"required_components_schema_ids"`
	ParentSchemaID       string        `json:"parent_schema_id,omitempty" yaml:"parent_schema_id,omitempty"`
	SchemaType           string        `json:"schema_type,omitempty" yaml:"schema_type,omitempty"`
}

func (s Schema) IsComposite() bool {
	return s.RequiredComponentIDs != nil
}

func (s Schema) IsAComponent() bool {
	return s.ParentSchemaID != ""
}

// PrintName is the label text for units of this schema.
func (s Schema) PrintName() string {
	if s.UnitShortName == "" {
		return s.UnitName
	}
	return s.UnitShortName
}

package passport_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"workbench/internal/i18n"
	"workbench/internal/passport"
	"workbench/internal/unit"
)

func buildUnit(t *testing.T, start time.Time) *unit.Unit {
	t.Helper()
	componentSchema := unit.Schema{SchemaID: "sensor", UnitName: "Sensor", ProductionStages: []unit.SchemaStage{{Name: "Solder", StageID: "s1"}}}
	component, err := unit.New(componentSchema)
	if err != nil {
		t.Fatal(err)
	}
	emp := unit.Employee{CardID: "1111111111", Name: "John Doe", Position: "Assembler"}
	if err := component.StartOperation(emp, nil, start); err != nil {
		t.Fatal(err)
	}
	if _, err := component.EndOperation(unit.StageEnd{At: start.Add(90 * time.Second), VideoHashes: []string{"QmVideo"}}); err != nil {
		t.Fatal(err)
	}

	compositeSchema := unit.Schema{
		SchemaID:             "board",
		UnitName:             "Board",
		ProductionStages:     []unit.SchemaStage{{Name: "Assemble", StageID: "b1"}},
		RequiredComponentIDs: []string{"sensor"},
	}
	composite, err := unit.New(compositeSchema)
	if err != nil {
		t.Fatal(err)
	}
	if err := composite.AssignComponent(component); err != nil {
		t.Fatal(err)
	}
	if err := composite.StartOperation(emp, map[string]string{"batch": "7"}, start.Add(2*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := composite.EndOperation(unit.StageEnd{At: start.Add(3 * time.Minute)}); err != nil {
		t.Fatal(err)
	}
	composite.SerialNumber = "SN-1"
	return composite
}

func TestRenderKeepsKeyOrderAndNesting(t *testing.T) {
	start := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	u := buildUnit(t, start)
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatal(err)
	}
	data, err := passport.NewBuilder(tr, func() time.Time { return start.Add(time.Hour) }).Render(u)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(data)

	order := []string{"Unit ID:", "Unit model:", "Build time:", "Production stages:", "Components:", "Build time including components:", "Serial number:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		if idx < 0 {
			t.Fatalf("missing %q in passport:\n%s", key, text)
		}
		if idx <= last {
			t.Fatalf("%q out of order in passport:\n%s", key, text)
		}
		last = idx
	}
	if !strings.Contains(text, passport.VideoGatewayURL+"QmVideo") {
		t.Fatalf("video link missing:\n%s", text)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("passport is not valid yaml: %v", err)
	}
	if decoded["Unit model"] != "Board" || decoded["Serial number"] != "SN-1" {
		t.Fatalf("unexpected header %v", decoded)
	}
	if decoded["Build time"] != "0:01:00" || decoded["Build time including components"] != "0:02:30" {
		t.Fatalf("unexpected build times %v / %v", decoded["Build time"], decoded["Build time including components"])
	}
	stages := decoded["Production stages"].([]any)
	stage := stages[0].(map[string]any)
	if stage["Start time"] != "02-03-2024 09:02:00" {
		t.Fatalf("unexpected start time %v", stage["Start time"])
	}
	info := stage["Additional information"].(map[string]any)
	if info["batch"] != "7" {
		t.Fatalf("unexpected metadata %v", info)
	}
}

func TestSaveUsesUnitUUID(t *testing.T) {
	start := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	u := buildUnit(t, start)
	tr, err := i18n.New("ru")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path, err := passport.NewBuilder(tr, nil).Save(dir, u)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "unit-passport-"+u.UUID+".yaml") {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["Модель изделия"] != "Board" {
		t.Fatalf("expected russian keys:\n%s", data)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                     "0:00:00",
		59*time.Second + 900*time.Millisecond: "0:00:59",
		26*time.Hour + 3*time.Minute + 4*time.Second: "26:03:04",
		-time.Second: "0:00:00",
	}
	for in, want := range cases {
		if got := passport.FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%s) = %q want %q", in, got, want)
		}
	}
}

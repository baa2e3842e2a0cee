package main

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"workbench/internal/api"
	"workbench/internal/workbench"
)

func newTable(title string, header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}
	tw.AppendHeader(table.Row(header))
	return tw
}

// renderSnapshot tabulates the operator, the unit on the table, and its
// component slots.
func renderSnapshot(snap workbench.Snapshot) string {
	tw := newTable("Station", "Field", "Value")
	employee := "-"
	if snap.Employee != nil {
		employee = snap.Employee.Name
		if snap.Employee.Position != "" {
			employee += " (" + snap.Employee.Position + ")"
		}
	}
	tw.AppendRows([]table.Row{
		{"Employee", employee},
		{"Operation ongoing", yesNo(snap.OperationOngoing)},
		{"Unit", valueOrDash(snap.UnitInternalID)},
		{"Unit status", valueOrDash(string(snap.UnitStatus))},
		{"Biography", valueOrDash(strings.Join(snap.UnitBiography, ", "))},
	})
	if len(snap.UnitComponents) > 0 {
		tw.AppendSeparator()
		schemas := make([]string, 0, len(snap.UnitComponents))
		for schemaID := range snap.UnitComponents {
			schemas = append(schemas, schemaID)
		}
		sort.Strings(schemas)
		for _, schemaID := range schemas {
			assigned := "(empty slot)"
			if id := snap.UnitComponents[schemaID]; id != nil {
				assigned = *id
			}
			tw.AppendRow(table.Row{"Component " + schemaID, assigned})
		}
	}
	return tw.Render()
}

// renderUnit shows a stored unit followed by its biography in stage order,
// completed stages first.
func renderUnit(info api.UnitInfo) string {
	tw := newTable("Unit "+info.UnitInternalID, "Field", "Value")
	tw.AppendRows([]table.Row{
		{"Schema", info.SchemaID},
		{"Status", info.UnitStatus},
		{"Components", valueOrDash(strings.Join(info.UnitComponents, ", "))},
	})
	bio := newTable("Biography", "#", "Stage", "State")
	n := 0
	for _, stage := range info.UnitBiographyCompleted {
		n++
		bio.AppendRow(table.Row{n, stage.StageName, "completed"})
	}
	for _, stage := range info.UnitBiographyPending {
		n++
		bio.AppendRow(table.Row{n, stage.StageName, "pending"})
	}
	if n == 0 {
		return tw.Render()
	}
	return tw.Render() + "\n" + bio.Render()
}

func renderPending(units []api.PendingEntry) string {
	tw := newTable("Awaiting revision", "Internal id", "Unit")
	for _, u := range units {
		tw.AppendRow(table.Row{u.UnitInternalID, u.UnitName})
	}
	return tw.Render()
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

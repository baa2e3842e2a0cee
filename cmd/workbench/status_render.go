package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"workbench/internal/workbench"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var kindStyles = map[statusKind]struct {
	label  string
	colors text.Colors
}{
	statusInfo:  {"INFO", text.Colors{text.FgBlue}},
	statusOK:    {"OK", text.Colors{text.FgGreen}},
	statusWarn:  {"WARN", text.Colors{text.FgYellow}},
	statusError: {"ERROR", text.Colors{text.FgRed}},
}

// stateKinds colours the station states: idle without an operator warns,
// a running stage is the healthy working state.
var stateKinds = map[workbench.State]statusKind{
	workbench.StateAwaitLogin:             statusWarn,
	workbench.StateAuthorizedIdling:       statusInfo,
	workbench.StateUnitAssignedIdling:     statusInfo,
	workbench.StateGatherComponents:       statusInfo,
	workbench.StateProductionStageOngoing: statusOK,
}

const statusLabelWidth = 20

// statusPrinter writes labelled status lines grouped under section headers.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *statusPrinter) paint(colors text.Colors, s string) string {
	if !p.colorize {
		return s
	}
	return colors.Sprint(s)
}

func (p *statusPrinter) section(title string) {
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	fmt.Fprintln(p.out, p.paint(text.Colors{text.FgBlue, text.Bold}, header))
}

func (p *statusPrinter) line(label string, kind statusKind, message string) {
	style := kindStyles[kind]
	value := "[" + style.label + "]"
	if message != "" {
		value += " " + message
	}
	fmt.Fprintf(p.out, "  %-*s %s\n", statusLabelWidth, label+":", p.paint(style.colors, value))
}

// state prints the station state coloured by how the station is doing.
func (p *statusPrinter) state(state workbench.State) {
	kind, ok := stateKinds[state]
	if !ok {
		kind = statusError
	}
	p.line("State", kind, string(state))
}

func (p *statusPrinter) blank() {
	fmt.Fprintln(p.out)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

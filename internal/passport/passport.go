// Package passport renders the human-readable unit passport: an ordered YAML
// document with translated keys describing a unit, its production stages,
// and its components.
package passport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"workbench/internal/i18n"
	"workbench/internal/unit"
)

// VideoGatewayURL prefixes stage video content ids in passports.
const VideoGatewayURL = "https://gateway.ipfs.io/ipfs/"

// Builder renders passports in one language.
type Builder struct {
	tr  *i18n.Translator
	now func() time.Time
}

// NewBuilder constructs a builder. now supplies the instant open stages are
// measured up to; nil means time.Now.
func NewBuilder(tr *i18n.Translator, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{tr: tr, now: now}
}

// Render returns the passport of u as YAML.
func (b *Builder) Render(u *unit.Unit) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{b.unitNode(u, b.now())}}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode passport: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode passport: %w", err)
	}
	return buf.Bytes(), nil
}

// Save renders the passport of u into dir and returns the file path.
func (b *Builder) Save(dir string, u *unit.Unit) (string, error) {
	data, err := b.Render(u)
	if err != nil {
		return "", err
	}
	return Write(dir, FileName(u), data)
}

// Write stores a rendered passport as dir/name.
func Write(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create passport directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write passport: %w", err)
	}
	return path, nil
}

// FileName is the passport file name of u.
func FileName(u *unit.Unit) string {
	return "unit-passport-" + u.UUID + ".yaml"
}

// TotalAssemblyTime sums the build time of u and all nested components.
func TotalAssemblyTime(u *unit.Unit, now time.Time) time.Duration {
	total := u.TotalAssemblyTime(now)
	for _, component := range u.Components {
		total += TotalAssemblyTime(component, now)
	}
	return total
}

func (b *Builder) unitNode(u *unit.Unit, now time.Time) *yaml.Node {
	m := newMapping()
	m.set(b.tr.T(i18n.PassportProductID), scalar(u.UUID))
	m.set(b.tr.T(i18n.PassportProductModel), scalar(u.ModelName()))
	m.set(b.tr.T(i18n.PassportBuildTime), scalar(FormatDuration(u.TotalAssemblyTime(now))))

	if len(u.Biography) > 0 {
		stages := &yaml.Node{Kind: yaml.SequenceNode}
		for _, stage := range u.Biography {
			stages.Content = append(stages.Content, b.stageNode(stage))
		}
		m.set(b.tr.T(i18n.PassportStages), stages)
	}
	if len(u.Components) > 0 {
		components := &yaml.Node{Kind: yaml.SequenceNode}
		for _, component := range u.Components {
			components.Content = append(components.Content, b.unitNode(component, now))
		}
		m.set(b.tr.T(i18n.PassportComponents), components)
		m.set(b.tr.T(i18n.PassportBuildTimeComponents), scalar(FormatDuration(TotalAssemblyTime(u, now))))
	}
	if u.SerialNumber != "" {
		m.set(b.tr.T(i18n.PassportSerialNumber), scalar(u.SerialNumber))
	}
	return m.node
}

func (b *Builder) stageNode(stage *unit.ProductionStage) *yaml.Node {
	m := newMapping()
	m.set(b.tr.T(i18n.PassportStageName), scalar(stage.Name))
	m.set(b.tr.T(i18n.PassportEmployee), optional(stage.EmployeeCode))
	m.set(b.tr.T(i18n.PassportStartTime), optional(unit.FormatTimestamp(stage.SessionStart)))
	m.set(b.tr.T(i18n.PassportEndTime), optional(unit.FormatTimestamp(stage.SessionEnd)))
	if len(stage.VideoHashes) > 0 {
		links := &yaml.Node{Kind: yaml.SequenceNode}
		for _, cid := range stage.VideoHashes {
			links.Content = append(links.Content, scalar(VideoGatewayURL+cid))
		}
		m.set(b.tr.T(i18n.PassportVideo), links)
	}
	if len(stage.Metadata) > 0 {
		info := &yaml.Node{}
		// Metadata is a flat string map; Encode sorts its keys.
		if err := info.Encode(stage.Metadata); err == nil {
			m.set(b.tr.T(i18n.PassportInformation), info)
		}
	}
	return m.node
}

// FormatDuration renders d as H:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	return strconv.Itoa(hours) + ":" + twoDigits(minutes) + ":" + twoDigits(seconds)
}

func twoDigits(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

type mapping struct {
	node *yaml.Node
}

func newMapping() mapping {
	return mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
}

func (m mapping) set(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content, scalar(key), value)
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func optional(value string) *yaml.Node {
	if value == "" {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	return scalar(value)
}

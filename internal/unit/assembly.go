package unit

import (
	"fmt"
	"slices"

	"workbench/internal/faults"
)

// AssemblyReason names the rule a component assignment broke.
type AssemblyReason int

const (
	ReasonSlotsFilled AssemblyReason = iota + 1
	ReasonNotAComponent
	ReasonSlotTaken
	ReasonComponentNotBuilt
	ReasonComponentUsed
)

// AssemblyError is returned by AssignComponent. It matches
// faults.ErrAssemblyConflict under errors.Is.
type AssemblyError struct {
	Reason        AssemblyReason
	Composite     string
	Component     string
	ComponentID   string
	ComponentUsed string
}

func (e *AssemblyError) Error() string {
	switch e.Reason {
	case ReasonSlotsFilled:
		return fmt.Sprintf("unit %s component requirements have already been satisfied", e.Composite)
	case ReasonNotAComponent:
		return fmt.Sprintf("cannot assign %s to %s: not one of its components", e.Component, e.Composite)
	case ReasonSlotTaken:
		return fmt.Sprintf("component %s is already assigned to %s", e.Component, e.Composite)
	case ReasonComponentNotBuilt:
		return fmt.Sprintf("component %s assembly is not completed", e.Component)
	case ReasonComponentUsed:
		return fmt.Sprintf("component %s (%s) has already been used in unit %s", e.Component, e.ComponentID, e.ComponentUsed)
	default:
		return "component assignment rejected"
	}
}

func (e *AssemblyError) Unwrap() error { return faults.ErrAssemblyConflict }

// AssignComponent places component into its slot on u and records u as the
// composite that consumed it.
func (u *Unit) AssignComponent(component *Unit) error {
	reject := func(reason AssemblyReason) error {
		return &AssemblyError{
			Reason:        reason,
			Composite:     u.ModelName(),
			Component:     component.ModelName(),
			ComponentID:   component.InternalID,
			ComponentUsed: component.FeaturedIn,
		}
	}

	if u.ComponentsFilled() {
		return reject(ReasonSlotsFilled)
	}
	current, ok := u.slots[component.Schema.SchemaID]
	if !ok {
		return reject(ReasonNotAComponent)
	}
	if current != nil {
		return reject(ReasonSlotTaken)
	}
	if component.Status != StatusBuilt {
		return reject(ReasonComponentNotBuilt)
	}
	if component.FeaturedIn != "" {
		return reject(ReasonComponentUsed)
	}

	u.slots[component.Schema.SchemaID] = component
	u.Components = append(u.Components, component)
	component.FeaturedIn = u.InternalID
	return nil
}

// ReleaseComponent undoes a successful AssignComponent of component. It
// reports whether the component was found in its slot.
func (u *Unit) ReleaseComponent(component *Unit) bool {
	slot := component.Schema.SchemaID
	if u.slots[slot] != component {
		return false
	}
	u.slots[slot] = nil
	u.Components = slices.DeleteFunc(u.Components, func(c *Unit) bool { return c == component })
	component.FeaturedIn = ""
	return true
}

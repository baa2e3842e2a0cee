// Package unit models the physical items a workbench assembles.
//
// A Unit is built from a production Schema: the schema's stages become the
// unit's biography (an ordered list of ProductionStage records) and its
// required component types become fixed slots that composite units fill with
// other, already built, units. The package owns every assembly rule:
//
//   - a unit whose schema has no stages starts out built;
//   - a component is accepted only into an empty slot of its own type, only
//     when built, and only if no other composite has consumed it;
//   - status flips to built exactly once, when the last pending stage closes.
//
// Components point back at the composite that consumed them by internal id,
// never by reference, so unit trees stay acyclic.
package unit

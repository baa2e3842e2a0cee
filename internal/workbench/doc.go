// Package workbench is the production station state machine.
//
// A Workbench holds the logged-in operator, the unit on the table, and the
// current State, and exposes the operations operators perform at the
// station: logging in and out, creating and assigning units, gathering
// components, running production stages, and publishing passports. Every
// operation validates and mutates state inside one critical section.
// Operations that call slow collaborators (camera, gateway, printer) claim
// their preconditions under the lock, release it for the external calls,
// and commit the result under the lock again, so status readers never wait
// on hardware.
//
// Successful transitions bump the shared state signal; operator-facing
// outcomes are emitted on the notification bus in the station language.
// Collaborators are injected through Deps; a nil collaborator disables the
// matching step.
package workbench

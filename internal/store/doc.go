// Package store persists employees, production schemas, units, and their
// production stages in SQLite.
//
// Units are written with PushUnit, which upserts the unit row and replaces
// its stage rows in one transaction, recursing into components on request.
// Reads rebuild the full component tree. Employees and schemas are loaded
// from a YAML seed file with ImportSeed.
//
// Schema changes bump the version in schema.go; the database must be
// recreated to adopt a new schema.
package store

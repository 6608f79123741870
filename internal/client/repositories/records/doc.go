// Package records caches registered file records in the local SQLite
// database. The cache is filled after a registration commits and serves as
// a metadata fallback when the ledger cannot be queried.
package records

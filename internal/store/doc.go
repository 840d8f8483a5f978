// Package store defines the EntryStore contract for journal persistence and
// the helpers shared by its implementations. The interfaces abstract the
// underlying medium from the journal's business rules, allowing admission
// and query logic to remain independent of any specific storage technology.
//
// Implementations live under internal/platform: memory, filestore, sqlite,
// postgres and redis.
package store

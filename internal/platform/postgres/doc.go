// Package postgres provides the PostgreSQL implementation of store.EntryStore.
// It runs on database/sql through the pgx stdlib driver, owns the embedded
// goose migrations for the journal_entries table, and maps driver errors
// onto the store package's sentinels.
package postgres

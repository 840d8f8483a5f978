// Package domain contains the core business entities, value objects, and
// domain logic of the journal. It represents the heart of the system,
// independent of any specific storage medium or delivery mechanism.
//
// The central entity is JournalEntry: one owner's sentence for one calendar
// Date. Sentences are validated with ValidateSentence before an entry can be
// constructed, and entries are write-once after creation.
package domain

// Package events carries admission outcomes from the journal service to
// observers such as metrics and the audit log.
//
// The service emits an Event for every submission it decides. Handlers
// registered on an InMemoryEventEmitter run synchronously, in registration
// order, on the request goroutine.
package events

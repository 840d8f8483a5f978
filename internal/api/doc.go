// Package api serves the journal over HTTP. Handlers decode and validate
// requests, call the journal service, and translate its results into the
// form-state responses clients render.
package api

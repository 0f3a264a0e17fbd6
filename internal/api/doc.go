// Package api handles incoming HTTP requests, request validation, and
// response formatting. Handlers translate HTTP concerns into calls on the
// application services and wrap every reply in the standard response
// envelope.
package api

// Package api implements the HTTP handlers, request/response models, and
// error mapping for the REST interface.
package api

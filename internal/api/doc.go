// Package api implements the HTTP surface of the essay platform: request
// decoding and validation, error mapping and the handlers wiring routes to
// the service layer.
package api

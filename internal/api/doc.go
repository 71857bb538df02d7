// Package api exposes the sharing, import, deletion, artifact and streak
// operations over HTTP. Handlers decode and validate requests, call one
// service method, and map the service error kind to a status code.
package api

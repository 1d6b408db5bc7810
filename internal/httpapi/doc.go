package httpapi

// Package httpapi exposes the conversion pipeline over HTTP: a single
// convert endpoint that streams the encoded artifact as the response body,
// plus health and metrics endpoints.

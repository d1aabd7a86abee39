/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package rest adapts controller commands to HTTP, translating command
// errors into JSON error bodies and status codes.
package rest

import "net/http"

// Handler http handler for each controller API endpoint.
type Handler interface {
	// Path of the endpoint.
	Path() string
	// Method of the endpoint.
	Method() string
	// Handle is the http handler of the endpoint.
	Handle() http.HandlerFunc
}

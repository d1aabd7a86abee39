/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

import "encoding/json"

// ResolveDIDRequest is the request model for resolving a DID.
type ResolveDIDRequest struct {
	// DID to resolve, may carry a query component
	DID string `json:"did"`
	// AID the DID is expected to embed, optional
	AID string `json:"aid,omitempty"`
	// Meta requests the full resolution result with metadata
	Meta bool `json:"meta,omitempty"`
}

// ReEncodeDIDRequest is the request model for re-encoding a DID.
type ReEncodeDIDRequest struct {
	DID string `json:"did"`
}

// ReEncodeDIDResponse carries the canonical form of a re-encoded DID.
type ReEncodeDIDResponse struct {
	DID string `json:"did"`
}

// ConvertDocRequest is the request model for converting a DID document, or
// a full resolution result, between the web and webs schemes.
type ConvertDocRequest struct {
	// Document is the DID document or resolution result to convert
	Document json.RawMessage `json:"document"`
	// Meta marks Document as a full resolution result
	Meta bool `json:"meta,omitempty"`
}

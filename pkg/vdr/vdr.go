/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vdr provides the verifiable-data-registry abstraction over DID
// methods and a registry that dispatches resolution to the method
// implementations registered with it.
package vdr

import (
	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
)

// ResolveOpts holds the per-request options of a DID resolution.
type ResolveOpts struct {
	// AID is the caller-asserted identifier the DID must embed.
	AID string
	// Meta requests resolution and document metadata.
	Meta bool
}

// ResolveOption configures a single resolution request.
type ResolveOption func(opts *ResolveOpts)

// WithAID asserts the identifier the DID must embed.
func WithAID(aid string) ResolveOption {
	return func(opts *ResolveOpts) {
		opts.AID = aid
	}
}

// WithMeta requests resolution and document metadata alongside the
// document.
func WithMeta(meta bool) ResolveOption {
	return func(opts *ResolveOpts) {
		opts.Meta = meta
	}
}

// Resolver resolves DIDs into documents. *Registry implements it.
type Resolver interface {
	Resolve(did string, opts ...ResolveOption) (*diddoc.DocResolution, error)
}

// VDR is a DID method implementation.
type VDR interface {
	// Read resolves a DID into a document.
	Read(did string, opts ...ResolveOption) (*diddoc.DocResolution, error)

	// Accept reports whether this VDR handles the given DID method.
	Accept(method string) bool

	// Close frees resources being maintained by the VDR.
	Close() error
}

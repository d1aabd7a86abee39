/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"fmt"
	"strings"

	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
)

// Option is a vdr instance option.
type Option func(opts *Registry)

// Registry dispatches DID resolution across registered method
// implementations.
type Registry struct {
	vdr []VDR
}

// New return new instance of vdr registry.
func New(opts ...Option) *Registry {
	registry := &Registry{}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// Resolve did document.
func (r *Registry) Resolve(did string, opts ...ResolveOption) (*diddoc.DocResolution, error) {
	didMethod, err := GetDidMethod(did)
	if err != nil {
		return nil, err
	}

	method, err := r.resolveVDR(didMethod)
	if err != nil {
		return nil, err
	}

	didDocResolution, err := method.Read(did, opts...)
	if err != nil {
		return nil, fmt.Errorf("did method read failed: %w", err)
	}

	return didDocResolution, nil
}

// Close frees resources being maintained by vdr.
func (r *Registry) Close() error {
	for _, v := range r.vdr {
		if err := v.Close(); err != nil {
			return fmt.Errorf("close vdr: %w", err)
		}
	}

	return nil
}

func (r *Registry) resolveVDR(method string) (VDR, error) {
	for _, v := range r.vdr {
		if v.Accept(method) {
			return v, nil
		}
	}

	return nil, fmt.Errorf("did method %s not supported for vdr", method)
}

// WithVDR adds a did method implementation to the registry.
func WithVDR(method VDR) Option {
	return func(opts *Registry) {
		opts.vdr = append(opts.vdr, method)
	}
}

// GetDidMethod get did method.
func GetDidMethod(didID string) (string, error) {
	const numPartsDID = 3

	didParts := strings.Split(didID, ":")
	if len(didParts) < numPartsDID {
		return "", fmt.Errorf("wrong format did input: %s", didID)
	}

	return didParts[1], nil
}

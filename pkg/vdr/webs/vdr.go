/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package webs synthesizes DID documents for did:webs (and did:keri)
// identifiers from externally-validated key state.
package webs

import (
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/weboftrust/didwebs-go/pkg/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/keystate"
)

var logger = log.New("didwebs-go/vdr/webs")

// VDR synthesizes DID documents from key state. It holds no cross-request
// state; all lookups go through the injected read-only services.
type VDR struct {
	keyState    keystate.Service
	registry    keystate.CredentialRegistry
	aliasSchema string
	now         func() time.Time
}

// Option configures a VDR.
type Option func(*VDR)

// New returns a did:webs VDR reading identifier state from svc.
func New(svc keystate.Service, opts ...Option) *VDR {
	v := &VDR{
		keyState:    svc,
		aliasSchema: DesignatedAliasSchema,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// WithCredentialRegistry supplies the registry used to derive designated
// aliases. Without one, documents carry no alsoKnownAs entries.
func WithCredentialRegistry(registry keystate.CredentialRegistry) Option {
	return func(v *VDR) {
		v.registry = registry
	}
}

// WithAliasSchema overrides the designated-aliases credential schema.
func WithAliasSchema(schemaID string) Option {
	return func(v *VDR) {
		v.aliasSchema = schemaID
	}
}

// WithClock overrides the clock used for the retrieved timestamp.
func WithClock(now func() time.Time) Option {
	return func(v *VDR) {
		v.now = now
	}
}

// Accept reports whether this VDR handles the given DID method.
func (v *VDR) Accept(method string) bool {
	switch didwebs.Method(method) {
	case didwebs.MethodWebs, didwebs.MethodWeb, didwebs.MethodKeri:
		return true
	default:
		return false
	}
}

// Close frees resources held by the VDR.
func (v *VDR) Close() error {
	return nil
}

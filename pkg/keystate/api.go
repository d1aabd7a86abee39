/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keystate defines the read-only contracts through which DID
// document synthesis observes externally-validated identifier state: the
// current signing keys and policy derived from an identifier's event log,
// witness network locations, service endpoint listings, and the credential
// registry used for designated aliases.
package keystate

import (
	"errors"
	"math/big"
)

// ErrNotFound is returned by Service.KeyState when no key state exists for
// an identifier.
var ErrNotFound = errors.New("key state not found")

// Key is one verifying key of an identifier's current key state, in its
// qb64 identifier form alongside the raw public key bytes.
type Key struct {
	ID  string
	Raw []byte
}

// SigningPolicy is the tagged signing-threshold variant of a key state:
// Single, SimpleThreshold or WeightedThreshold.
type SigningPolicy interface {
	signingPolicy()
}

// Single is the policy of a single-key identifier.
type Single struct{}

func (Single) signingPolicy() {}

// SimpleThreshold requires any N of the identifier's keys to co-sign.
type SimpleThreshold struct {
	N int
}

func (SimpleThreshold) signingPolicy() {}

// WeightedThreshold assigns each key a positive rational weight; the weight
// count must equal the key count.
type WeightedThreshold struct {
	Weights []*big.Rat
}

func (WeightedThreshold) signingPolicy() {}

// KeyState is the current authoritative key state of an identifier.
type KeyState struct {
	Keys           []Key
	Policy         SigningPolicy
	Witnesses      []string
	SequenceNumber uint64
}

// Location is one known network location of a witness.
type Location struct {
	Scheme string
	URL    string
}

// Endpoint is one service endpoint identifier with its protocol-to-host
// mapping.
type Endpoint struct {
	ID   string
	URIs map[string]string
}

// RoleEndpoints lists the endpoints known under one authorization role.
type RoleEndpoints struct {
	Role      string
	Endpoints []Endpoint
}

// EndpointTable is an ordered role-keyed endpoint listing. Slices rather
// than maps so enumeration order is the service's order.
type EndpointTable []RoleEndpoints

// Service exposes validated identifier state to the resolver.
type Service interface {
	// KeyState returns the current key state of an identifier, or an error
	// wrapping ErrNotFound when the identifier is unknown.
	KeyState(aid string) (*KeyState, error)

	// WitnessLocations returns every known network location of a witness.
	WitnessLocations(witness string) ([]Location, error)

	// RoleEndpoints returns the role-based service endpoint table of an
	// identifier.
	RoleEndpoints(aid string) (EndpointTable, error)

	// WitnessEndpoints returns the witness-based service endpoint table of
	// an identifier.
	WitnessEndpoints(aid string) (EndpointTable, error)

	// HasLocalIdentity reports whether the identifier is locally controlled.
	HasLocalIdentity(aid string) bool
}

// Credential is a credential record as surfaced by a registry lookup.
// Attributes is the credential's attribute section; StatusEventType is the
// event type of its latest status event ("iss", "rev", "bis", "brv").
type Credential struct {
	Attributes      map[string]interface{}
	StatusEventType string
}

// CredentialRegistry finds credentials issued by an identifier about itself.
type CredentialRegistry interface {
	// FindSelfAttested returns the credentials issued by aid with the given
	// schema that carry no distinct issuee.
	FindSelfAttested(aid, schemaID string) ([]Credential, error)
}

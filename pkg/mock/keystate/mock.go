/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keystate contains mock identifier-state collaborators
// to be used only for unit tests.
package keystate

import (
	"github.com/weboftrust/didwebs-go/pkg/keystate"
)

// Service mock implementation of the key-state service.
type Service struct {
	States            map[string]*keystate.KeyState
	Locations         map[string][]keystate.Location
	RoleEnds          keystate.EndpointTable
	WitnessEnds       keystate.EndpointTable
	Local             bool
	KeyStateErr       error
	LocationsErr      error
	EndpointsErr      error
	HasLocalIdentityF func(aid string) bool
}

// KeyState returns the configured state for aid.
func (m *Service) KeyState(aid string) (*keystate.KeyState, error) {
	if m.KeyStateErr != nil {
		return nil, m.KeyStateErr
	}

	state, ok := m.States[aid]
	if !ok {
		return nil, keystate.ErrNotFound
	}

	return state, nil
}

// WitnessLocations returns the configured locations for witness.
func (m *Service) WitnessLocations(witness string) ([]keystate.Location, error) {
	if m.LocationsErr != nil {
		return nil, m.LocationsErr
	}

	return m.Locations[witness], nil
}

// RoleEndpoints returns the configured role endpoint table.
func (m *Service) RoleEndpoints(string) (keystate.EndpointTable, error) {
	if m.EndpointsErr != nil {
		return nil, m.EndpointsErr
	}

	return m.RoleEnds, nil
}

// WitnessEndpoints returns the configured witness endpoint table.
func (m *Service) WitnessEndpoints(string) (keystate.EndpointTable, error) {
	if m.EndpointsErr != nil {
		return nil, m.EndpointsErr
	}

	return m.WitnessEnds, nil
}

// HasLocalIdentity reports the configured local-identity flag.
func (m *Service) HasLocalIdentity(aid string) bool {
	if m.HasLocalIdentityF != nil {
		return m.HasLocalIdentityF(aid)
	}

	return m.Local
}

// Registry mock implementation of the credential registry.
type Registry struct {
	Credentials []keystate.Credential
	Err         error
}

// FindSelfAttested returns the configured credentials.
func (m *Registry) FindSelfAttested(string, string) ([]keystate.Credential, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return m.Credentials, nil
}

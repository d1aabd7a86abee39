/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package filestore implements the keystate contracts over a directory of
// per-identifier JSON records, one file per AID. It backs the resolver
// service when no live event-log infrastructure is attached.
package filestore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/weboftrust/didwebs-go/pkg/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/keystate"
)

// Store reads identifier state from a directory of <aid>.json records.
// It implements both keystate.Service and keystate.CredentialRegistry.
type Store struct {
	dir string
}

// New returns a store over the given directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

type locationRecord struct {
	Scheme string `json:"scheme"`
	URL    string `json:"url"`
}

type endpointRecord struct {
	ID   string            `json:"id"`
	URIs map[string]string `json:"uris"`
}

type roleRecord struct {
	Role      string           `json:"role"`
	Endpoints []endpointRecord `json:"endpoints"`
}

type credentialRecord struct {
	Schema     string                 `json:"schema"`
	Issuee     string                 `json:"issuee,omitempty"`
	Status     string                 `json:"status"`
	Attributes map[string]interface{} `json:"attributes"`
}

// record is the on-disk shape of one identifier's state. Threshold mirrors
// the event-log threshold field: a bare integer string, or a list of
// fraction strings for weighted thresholds.
type record struct {
	Keys             []string                    `json:"keys"`
	Threshold        json.RawMessage             `json:"threshold,omitempty"`
	Witnesses        []string                    `json:"witnesses,omitempty"`
	Sequence         uint64                      `json:"sequence"`
	Local            bool                        `json:"local,omitempty"`
	WitnessLocations map[string][]locationRecord `json:"witnessLocations,omitempty"`
	RoleEndpoints    []roleRecord                `json:"roleEndpoints,omitempty"`
	WitnessEndpoints []roleRecord                `json:"witnessEndpoints,omitempty"`
	Credentials      []credentialRecord          `json:"credentials,omitempty"`
}

func (s *Store) load(aid string) (*record, error) {
	if err := didwebs.ValidateAID(aid); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, aid+".json"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("aid %s: %w", aid, keystate.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("read key state record: %w", err)
	}

	rec := &record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("unmarshal key state record for %s: %w", aid, err)
	}

	return rec, nil
}

// KeyState returns the identifier's current key state.
func (s *Store) KeyState(aid string) (*keystate.KeyState, error) {
	rec, err := s.load(aid)
	if err != nil {
		return nil, err
	}

	keys := make([]keystate.Key, 0, len(rec.Keys))

	for _, qb64 := range rec.Keys {
		raw, err := rawKey(qb64)
		if err != nil {
			return nil, fmt.Errorf("key state record for %s: %w", aid, err)
		}

		keys = append(keys, keystate.Key{ID: qb64, Raw: raw})
	}

	policy, err := parseThreshold(rec.Threshold)
	if err != nil {
		return nil, fmt.Errorf("key state record for %s: %w", aid, err)
	}

	return &keystate.KeyState{
		Keys:           keys,
		Policy:         policy,
		Witnesses:      rec.Witnesses,
		SequenceNumber: rec.Sequence,
	}, nil
}

// WitnessLocations returns the known locations of a witness. Witnesses are
// looked up across every identifier record that names them.
func (s *Store) WitnessLocations(witness string) ([]keystate.Location, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list key state records: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		rec, err := s.load(entry.Name()[:len(entry.Name())-len(".json")])
		if err != nil {
			continue
		}

		if locs, ok := rec.WitnessLocations[witness]; ok {
			out := make([]keystate.Location, 0, len(locs))
			for _, l := range locs {
				out = append(out, keystate.Location{Scheme: l.Scheme, URL: l.URL})
			}

			return out, nil
		}
	}

	return nil, nil
}

// RoleEndpoints returns the role-based endpoint table of an identifier.
func (s *Store) RoleEndpoints(aid string) (keystate.EndpointTable, error) {
	rec, err := s.load(aid)
	if err != nil {
		return nil, err
	}

	return endpointTable(rec.RoleEndpoints), nil
}

// WitnessEndpoints returns the witness-based endpoint table of an identifier.
func (s *Store) WitnessEndpoints(aid string) (keystate.EndpointTable, error) {
	rec, err := s.load(aid)
	if err != nil {
		return nil, err
	}

	return endpointTable(rec.WitnessEndpoints), nil
}

// HasLocalIdentity reports whether the record marks the identifier as
// locally controlled.
func (s *Store) HasLocalIdentity(aid string) bool {
	rec, err := s.load(aid)
	if err != nil {
		return false
	}

	return rec.Local
}

// FindSelfAttested returns the identifier's credentials with the given
// schema that name no distinct issuee.
func (s *Store) FindSelfAttested(aid, schemaID string) ([]keystate.Credential, error) {
	rec, err := s.load(aid)
	if err != nil {
		return nil, err
	}

	var out []keystate.Credential

	for _, c := range rec.Credentials {
		if c.Schema != schemaID {
			continue
		}

		if c.Issuee != "" && c.Issuee != aid {
			continue
		}

		out = append(out, keystate.Credential{
			Attributes:      c.Attributes,
			StatusEventType: c.Status,
		})
	}

	return out, nil
}

func endpointTable(rows []roleRecord) keystate.EndpointTable {
	table := make(keystate.EndpointTable, 0, len(rows))

	for _, row := range rows {
		ends := make([]keystate.Endpoint, 0, len(row.Endpoints))
		for _, e := range row.Endpoints {
			ends = append(ends, keystate.Endpoint{ID: e.ID, URIs: e.URIs})
		}

		table = append(table, keystate.RoleEndpoints{Role: row.Role, Endpoints: ends})
	}

	return table
}

// parseThreshold maps the event-log threshold field onto a signing policy:
// absent or "1" is Single, a larger integer is SimpleThreshold, a fraction
// list is WeightedThreshold.
func parseThreshold(raw json.RawMessage) (keystate.SigningPolicy, error) {
	if len(raw) == 0 {
		return keystate.Single{}, nil
	}

	var sith string
	if err := json.Unmarshal(raw, &sith); err == nil {
		n := new(big.Int)
		if _, ok := n.SetString(sith, 16); !ok || !n.IsInt64() || n.Int64() < 1 {
			return nil, fmt.Errorf("invalid threshold %q", sith)
		}

		if n.Int64() == 1 {
			return keystate.Single{}, nil
		}

		return keystate.SimpleThreshold{N: int(n.Int64())}, nil
	}

	var fractions []string
	if err := json.Unmarshal(raw, &fractions); err != nil {
		return nil, fmt.Errorf("invalid threshold %s", raw)
	}

	weights := make([]*big.Rat, 0, len(fractions))

	for _, f := range fractions {
		w, ok := new(big.Rat).SetString(f)
		if !ok {
			return nil, fmt.Errorf("invalid threshold weight %q", f)
		}

		weights = append(weights, w)
	}

	return keystate.WeightedThreshold{Weights: weights}, nil
}

// rawKey recovers the public key bytes from a qb64 key identifier. One-char
// derivation codes fold a single pad byte into the code, four-char codes
// carry their body unpadded.
func rawKey(qb64 string) ([]byte, error) {
	if err := didwebs.ValidateAID(qb64); err != nil {
		return nil, err
	}

	if len(qb64) == 44 {
		b, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString("A" + qb64[1:])
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", qb64, err)
		}

		return b[1:], nil
	}

	b, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(qb64[4:])
	if err != nil {
		return nil, fmt.Errorf("decode key %q: %w", qb64, err)
	}

	return b, nil
}

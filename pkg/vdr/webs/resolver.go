/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/weboftrust/didwebs-go/pkg/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
	"github.com/weboftrust/didwebs-go/pkg/keystate"
	vdrapi "github.com/weboftrust/didwebs-go/pkg/vdr"
)

const retrievedTimeFormat = "2006-01-02T15:04:05Z"

// Read synthesizes the DID document for did from current key state.
// Without vdr.WithMeta the returned resolution carries only the document;
// with it, the witness list, versionId and retrieved timestamp as well.
// Resolution either fully succeeds or fails; no partial document is
// returned.
func (v *VDR) Read(did string, opts ...vdrapi.ResolveOption) (*diddoc.DocResolution, error) {
	o := &vdrapi.ResolveOpts{}

	for _, opt := range opts {
		opt(o)
	}

	parsed, err := didwebs.Parse(did)
	if err != nil {
		return nil, err
	}

	aid := o.AID
	if aid == "" {
		aid = parsed.AID
	}

	if parsed.AID != aid {
		return nil, errors.Wrapf(ErrMismatchedAID, "%s does not contain AID %s", did, aid)
	}

	logger.Debugf("generating DID document for %s with AID %s (meta=%v)", did, aid, o.Meta)

	state, err := v.keyState.KeyState(aid)
	if err != nil {
		if errors.Is(err, keystate.ErrNotFound) {
			return nil, errors.Wrapf(ErrUnknownAID, "no key state for %s", aid)
		}

		return nil, errors.Wrapf(err, "key state lookup for %s", aid)
	}

	vms, err := GenerateVerificationMethods(state.Keys, state.Policy, did, aid)
	if err != nil {
		return nil, err
	}

	doc := &diddoc.Doc{ID: did, VerificationMethod: vms}

	equivalentIDs := []string{}

	if v.keyState.HasLocalIdentity(aid) {
		if doc.Service, err = v.serviceEndpoints(aid); err != nil {
			return nil, err
		}

		aliases, err := v.designatedAliases(aid)
		if err != nil {
			return nil, err
		}

		for _, alias := range aliases {
			if strings.HasPrefix(alias, "did:webs:") {
				equivalentIDs = append(equivalentIDs, alias)
			}

			doc.AlsoKnownAs = append(doc.AlsoKnownAs, alias)
		}
	}

	if !o.Meta {
		return &diddoc.DocResolution{DIDDocument: doc}, nil
	}

	witnesses, err := v.witnessList(state.Witnesses)
	if err != nil {
		return nil, err
	}

	return &diddoc.DocResolution{
		DIDDocument: doc,
		ResolutionMetadata: &diddoc.ResolutionMetadata{
			ContentType: diddoc.ContentTypeDIDJSON,
			Retrieved:   v.now().UTC().Format(retrievedTimeFormat),
		},
		DocumentMetadata: &diddoc.DocumentMetadata{
			Witnesses:    witnesses,
			VersionID:    strconv.FormatUint(state.SequenceNumber, 10),
			EquivalentID: equivalentIDs,
		},
	}, nil
}

// serviceEndpoints builds the document's service list: role endpoints
// first, then witness endpoints.
func (v *VDR) serviceEndpoints(aid string) ([]diddoc.Service, error) {
	roleEnds, err := v.keyState.RoleEndpoints(aid)
	if err != nil {
		return nil, errors.Wrapf(err, "role endpoints for %s", aid)
	}

	witnessEnds, err := v.keyState.WitnessEndpoints(aid)
	if err != nil {
		return nil, errors.Wrapf(err, "witness endpoints for %s", aid)
	}

	return append(AddEndpoints(roleEnds), AddEndpoints(witnessEnds)...), nil
}

// witnessList pairs each configured witness, in configured order, with
// every known location record for it.
func (v *VDR) witnessList(witnesses []string) ([]diddoc.Witness, error) {
	list := []diddoc.Witness{}

	for idx, witness := range witnesses {
		locations, err := v.keyState.WitnessLocations(witness)
		if err != nil {
			return nil, errors.Wrapf(err, "witness locations for %s", witness)
		}

		for _, loc := range locations {
			list = append(list, diddoc.Witness{Idx: idx, Scheme: loc.Scheme, URL: loc.URL})
		}
	}

	return list, nil
}

// AddEndpoints flattens an endpoint table into service entries, one per
// (endpoint identifier, role) pair in enumeration order.
func AddEndpoints(table keystate.EndpointTable) []diddoc.Service {
	var services []diddoc.Service

	for _, role := range table {
		for _, end := range role.Endpoints {
			endpoint := make(map[string]string, len(end.URIs))
			for proto, host := range end.URIs {
				endpoint[proto] = host
			}

			services = append(services, diddoc.Service{
				ID:              fmt.Sprintf("#%s/%s", end.ID, role.Role),
				Type:            role.Role,
				ServiceEndpoint: endpoint,
			})
		}
	}

	return services
}

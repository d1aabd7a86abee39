/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webs

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// DesignatedAliasSchema is the well-known schema of designated-alias
// credentials.
const DesignatedAliasSchema = "EN6Oh5XSD5_q2Hgu-aqpdfbVepdpYpFlgz6zvJL5b_r5"

// status event types denoting a non-revoked credential.
const (
	statusIssued       = "iss"
	statusBackerIssued = "bis"
)

// designatedAliases collects the alias lists of every non-revoked,
// self-attested designated-alias credential issued by aid, flattened in
// credential enumeration order without de-duplication.
func (v *VDR) designatedAliases(aid string) ([]string, error) {
	if v.registry == nil {
		return nil, nil
	}

	creds, err := v.registry.FindSelfAttested(aid, v.aliasSchema)
	if err != nil {
		return nil, errors.Wrapf(err, "find designated alias credentials for %s", aid)
	}

	var aliases []string

	for _, cred := range creds {
		if cred.StatusEventType != statusIssued && cred.StatusEventType != statusBackerIssued {
			logger.Debugf("skipping designated alias credential with status %s", cred.StatusEventType)
			continue
		}

		var attrs struct {
			IDs []string `mapstructure:"ids"`
		}

		if err := mapstructure.Decode(cred.Attributes, &attrs); err != nil {
			return nil, errors.Wrapf(err, "decode designated alias attributes for %s", aid)
		}

		aliases = append(aliases, attrs.IDs...)
	}

	return aliases, nil
}

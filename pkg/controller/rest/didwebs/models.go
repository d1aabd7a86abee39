/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

// resolveDIDQuery is the command request built from the resolve endpoint's
// path and query parameters.
type resolveDIDQuery struct {
	DID  string `json:"did"`
	Meta bool   `json:"meta,omitempty"`
}

/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

import "errors"

// ErrInvalidDID is returned when a DID string does not match the did:keri or
// did:web(s) grammar.
var ErrInvalidDID = errors.New("invalid DID")

// ErrInvalidAID is returned when an identifier fails prefix-format validation.
var ErrInvalidAID = errors.New("invalid AID")

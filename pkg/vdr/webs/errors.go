/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webs

import "errors"

// ErrUnknownAID is returned when the key-state service has no state for the
// identifier being resolved.
var ErrUnknownAID = errors.New("unknown AID")

// ErrMismatchedAID is returned when the identifier embedded in the DID
// disagrees with the caller-asserted identifier.
var ErrMismatchedAID = errors.New("DID does not contain the asserted AID")

// ErrInvalidPolicy is returned when signing-weight data is malformed.
var ErrInvalidPolicy = errors.New("invalid signing policy")

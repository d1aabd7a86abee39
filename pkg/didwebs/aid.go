/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

import (
	"fmt"
	"strings"
)

// aidCodeSizes maps a KERI derivation code to the full qb64 length of an
// identifier prefix carrying that code. Only codes that can appear at the
// head of an AID are listed; attachment and signature codes are not valid
// identifier prefixes.
var aidCodeSizes = map[string]int{ //nolint:gochecknoglobals
	"B":    44, // Ed25519 non-transferable
	"C":    44, // X25519 public encryption key
	"D":    44, // Ed25519 transferable
	"E":    44, // Blake3-256 self-addressing digest
	"F":    44, // Blake2b-256 digest
	"G":    44, // Blake2s-256 digest
	"H":    44, // SHA3-256 digest
	"I":    44, // SHA2-256 digest
	"1AAA": 48, // ECDSA secp256k1 non-transferable
	"1AAB": 48, // ECDSA secp256k1 transferable
	"1AAC": 48, // Ed448 non-transferable
	"1AAD": 48, // Ed448 transferable
}

const b64urlAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// ValidateAID checks that aid is a syntactically valid self-certifying
// identifier prefix: a known derivation code followed by base64url body
// characters, with the exact length the code prescribes.
func ValidateAID(aid string) error {
	if aid == "" {
		return fmt.Errorf("empty identifier: %w", ErrInvalidAID)
	}

	code := aid[:1]
	if code == "1" {
		if len(aid) < 4 {
			return fmt.Errorf("identifier %s too short for its derivation code: %w", aid, ErrInvalidAID)
		}

		code = aid[:4]
	}

	size, ok := aidCodeSizes[code]
	if !ok {
		return fmt.Errorf("identifier %s has unknown derivation code %q: %w", aid, code, ErrInvalidAID)
	}

	if len(aid) != size {
		return fmt.Errorf("identifier %s has length %d, derivation code %q requires %d: %w",
			aid, len(aid), code, size, ErrInvalidAID)
	}

	for _, c := range aid[len(code):] {
		if !strings.ContainsRune(b64urlAlphabet, c) {
			return fmt.Errorf("identifier %s contains non-base64url character %q: %w", aid, c, ErrInvalidAID)
		}
	}

	return nil
}

/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webs

import (
	"encoding/base64"
	"math/big"

	"github.com/pkg/errors"

	"github.com/weboftrust/didwebs-go/pkg/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
	"github.com/weboftrust/didwebs-go/pkg/keystate"
)

// GenerateVerificationMethods converts the verifying keys and signing policy
// of a key state into the document's verificationMethod list. Each key
// yields one JsonWebKey entry, in key order; a multisig policy appends one
// ConditionalProof2022 entry last. The controller of every entry is the DID
// with its query component stripped.
func GenerateVerificationMethods(keys []keystate.Key, policy keystate.SigningPolicy,
	did, aid string) ([]diddoc.VerificationMethod, error) {
	controller, err := didwebs.StripQuery(did)
	if err != nil {
		return nil, err
	}

	vms := make([]diddoc.VerificationMethod, 0, len(keys)+1)

	for _, key := range keys {
		vms = append(vms, diddoc.VerificationMethod{
			ID:         "#" + key.ID,
			Type:       diddoc.VMTypeJSONWebKey,
			Controller: controller,
			PublicKeyJWK: &diddoc.PublicKeyJWK{
				Kid: key.ID,
				Kty: "OKP",
				Crv: "Ed25519",
				X:   base64.RawURLEncoding.EncodeToString(key.Raw),
			},
		})
	}

	switch p := policy.(type) {
	case keystate.SimpleThreshold:
		if p.N > 1 {
			conditions := make([]string, 0, len(vms))
			for _, vm := range vms {
				conditions = append(conditions, vm.ID)
			}

			vms = append(vms, diddoc.VerificationMethod{
				ID:                 "#" + aid,
				Type:               diddoc.VMTypeConditionalProof,
				Controller:         controller,
				Threshold:          float64(p.N),
				ConditionThreshold: conditions,
			})
		}
	case keystate.WeightedThreshold:
		vm, err := weightedThresholdProof(p.Weights, vms, controller, aid)
		if err != nil {
			return nil, err
		}

		vms = append(vms, *vm)
	case keystate.Single, nil:
		// single-key identifier, no threshold method
	default:
		return nil, errors.Wrapf(ErrInvalidPolicy, "unsupported signing policy %T", policy)
	}

	return vms, nil
}

// weightedThresholdProof encodes fractional signing weights over a common
// denominator. The threshold is half the common denominator: the multisig
// is satisfied once accumulated weight exceeds half the weight space.
func weightedThresholdProof(weights []*big.Rat, keyVMs []diddoc.VerificationMethod,
	controller, aid string) (*diddoc.VerificationMethod, error) {
	if len(weights) != len(keyVMs) {
		return nil, errors.Wrapf(ErrInvalidPolicy, "%d weights for %d keys", len(weights), len(keyVMs))
	}

	lcd := big.NewInt(1)

	for _, w := range weights {
		if w == nil || w.Sign() <= 0 {
			return nil, errors.Wrap(ErrInvalidPolicy, "weights must be positive rationals")
		}

		lcd = lcm(lcd, w.Denom())
	}

	if !lcd.IsInt64() {
		return nil, errors.Wrapf(ErrInvalidPolicy, "common denominator %s is too large", lcd)
	}

	conditions := make([]diddoc.WeightedCondition, 0, len(weights))

	for i, w := range weights {
		num := new(big.Int).Mul(w.Num(), lcd)
		rem := new(big.Int)
		num.QuoRem(num, w.Denom(), rem)

		if rem.Sign() != 0 || !num.IsInt64() {
			return nil, errors.Wrapf(ErrInvalidPolicy,
				"weight %s does not scale to an integer over denominator %s", w.RatString(), lcd)
		}

		conditions = append(conditions, diddoc.WeightedCondition{
			Condition: keyVMs[i].ID,
			Weight:    int(num.Int64()),
		})
	}

	return &diddoc.VerificationMethod{
		ID:                         "#" + aid,
		Type:                       diddoc.VMTypeConditionalProof,
		Controller:                 controller,
		Threshold:                  float64(lcd.Int64()) / 2,
		ConditionWeightedThreshold: conditions,
	}, nil
}

func lcm(a, b *big.Int) *big.Int {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Div(a, gcd)

	return out.Mul(out, b)
}

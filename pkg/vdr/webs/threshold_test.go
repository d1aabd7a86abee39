/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webs

import (
	"encoding/base64"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
	"github.com/weboftrust/didwebs-go/pkg/keystate"
)

const (
	testAID = "EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"
	testDID = "did:webs:example.com:" + testAID
)

func testKeys(n int) []keystate.Key {
	ids := []string{
		"DKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv",
		"DLW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv",
		"DMW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv",
	}

	keys := make([]keystate.Key, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, keystate.Key{ID: ids[i], Raw: []byte{byte(i + 1), 2, 3}})
	}

	return keys
}

func TestGenerateVerificationMethods(t *testing.T) {
	t.Run("single key", func(t *testing.T) {
		keys := testKeys(1)

		vms, err := GenerateVerificationMethods(keys, keystate.Single{}, testDID, testAID)
		require.NoError(t, err)
		require.Len(t, vms, 1)

		vm := vms[0]
		require.Equal(t, "#"+keys[0].ID, vm.ID)
		require.Equal(t, diddoc.VMTypeJSONWebKey, vm.Type)
		require.Equal(t, testDID, vm.Controller)
		require.Equal(t, keys[0].ID, vm.PublicKeyJWK.Kid)
		require.Equal(t, "OKP", vm.PublicKeyJWK.Kty)
		require.Equal(t, "Ed25519", vm.PublicKeyJWK.Crv)
		require.Equal(t, base64.RawURLEncoding.EncodeToString(keys[0].Raw), vm.PublicKeyJWK.X)
	})

	t.Run("nil policy behaves as single", func(t *testing.T) {
		vms, err := GenerateVerificationMethods(testKeys(1), nil, testDID, testAID)
		require.NoError(t, err)
		require.Len(t, vms, 1)
	})

	t.Run("controller strips the query", func(t *testing.T) {
		vms, err := GenerateVerificationMethods(testKeys(1), keystate.Single{}, testDID+"?meta=true", testAID)
		require.NoError(t, err)
		require.Equal(t, testDID, vms[0].Controller)
	})

	t.Run("simple threshold appends one conditional proof", func(t *testing.T) {
		keys := testKeys(3)

		vms, err := GenerateVerificationMethods(keys, keystate.SimpleThreshold{N: 2}, testDID, testAID)
		require.NoError(t, err)
		require.Len(t, vms, 4)

		proof := vms[3]
		require.Equal(t, "#"+testAID, proof.ID)
		require.Equal(t, diddoc.VMTypeConditionalProof, proof.Type)
		require.Equal(t, testDID, proof.Controller)
		require.Equal(t, float64(2), proof.Threshold)
		require.Equal(t, []string{"#" + keys[0].ID, "#" + keys[1].ID, "#" + keys[2].ID}, proof.ConditionThreshold)
		require.Empty(t, proof.ConditionWeightedThreshold)
	})

	t.Run("threshold of one stays a plain key list", func(t *testing.T) {
		vms, err := GenerateVerificationMethods(testKeys(2), keystate.SimpleThreshold{N: 1}, testDID, testAID)
		require.NoError(t, err)
		require.Len(t, vms, 2)
	})

	t.Run("weighted threshold over common denominator", func(t *testing.T) {
		keys := testKeys(3)
		weights := []*big.Rat{
			big.NewRat(1, 2),
			big.NewRat(1, 4),
			big.NewRat(1, 4),
		}

		vms, err := GenerateVerificationMethods(keys, keystate.WeightedThreshold{Weights: weights}, testDID, testAID)
		require.NoError(t, err)
		require.Len(t, vms, 4)

		proof := vms[3]
		require.Equal(t, diddoc.VMTypeConditionalProof, proof.Type)
		require.Equal(t, float64(2), proof.Threshold) // lcd 4, threshold lcd/2

		require.Equal(t, []diddoc.WeightedCondition{
			{Condition: "#" + keys[0].ID, Weight: 2},
			{Condition: "#" + keys[1].ID, Weight: 1},
			{Condition: "#" + keys[2].ID, Weight: 1},
		}, proof.ConditionWeightedThreshold)
	})

	t.Run("odd common denominator halves fractionally", func(t *testing.T) {
		weights := []*big.Rat{big.NewRat(1, 3), big.NewRat(2, 3)}

		vms, err := GenerateVerificationMethods(testKeys(2), keystate.WeightedThreshold{Weights: weights},
			testDID, testAID)
		require.NoError(t, err)

		require.Equal(t, 1.5, vms[2].Threshold)
		require.Equal(t, 1, vms[2].ConditionWeightedThreshold[0].Weight)
		require.Equal(t, 2, vms[2].ConditionWeightedThreshold[1].Weight)
	})

	t.Run("weight count must match key count", func(t *testing.T) {
		_, err := GenerateVerificationMethods(testKeys(2),
			keystate.WeightedThreshold{Weights: []*big.Rat{big.NewRat(1, 2)}}, testDID, testAID)
		require.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("weights must be positive", func(t *testing.T) {
		_, err := GenerateVerificationMethods(testKeys(2),
			keystate.WeightedThreshold{Weights: []*big.Rat{big.NewRat(1, 2), big.NewRat(-1, 2)}}, testDID, testAID)
		require.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("invalid DID", func(t *testing.T) {
		_, err := GenerateVerificationMethods(testKeys(1), keystate.Single{}, "did:other:thing", testAID)
		require.Error(t, err)
	})
}

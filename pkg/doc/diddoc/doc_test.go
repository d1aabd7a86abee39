/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package diddoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDID = "did:webs:example.com:EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"

func sampleDoc() *Doc {
	return &Doc{
		ID: testDID,
		VerificationMethod: []VerificationMethod{
			{
				ID:         "#DKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv",
				Type:       VMTypeJSONWebKey,
				Controller: testDID,
				PublicKeyJWK: &PublicKeyJWK{
					Kid: "DKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv",
					Kty: "OKP",
					Crv: "Ed25519",
					X:   "VLWdNhOMe0JhdVfs5pRBUc6TUsM1BHq8F9GhupkJgjc",
				},
			},
		},
		Service: []Service{
			{
				ID:              "#EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv/agent",
				Type:            "agent",
				ServiceEndpoint: map[string]string{"http": "http://example.com:8080"},
			},
		},
		AlsoKnownAs: []string{"did:webs:other.example:EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"},
	}
}

func TestDocJSONBytes(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		doc := sampleDoc()

		data, err := doc.JSONBytes()
		require.NoError(t, err)

		parsed, err := ParseDocument(data)
		require.NoError(t, err)
		require.Equal(t, doc, parsed)
	})

	t.Run("absent lists serialize as empty arrays", func(t *testing.T) {
		data, err := (&Doc{ID: testDID}).JSONBytes()
		require.NoError(t, err)

		var wire map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &wire))

		for _, field := range []string{"verificationMethod", "service", "alsoKnownAs"} {
			require.JSONEq(t, "[]", string(wire[field]), field)
		}
	})

	t.Run("empty key entries are omitted from the wire form", func(t *testing.T) {
		doc := &Doc{
			ID: testDID,
			VerificationMethod: []VerificationMethod{
				{ID: "#key-1", Type: VMTypeJSONWebKey, Controller: testDID},
			},
		}

		data, err := doc.JSONBytes()
		require.NoError(t, err)
		require.NotContains(t, string(data), "publicKeyJwk")
		require.NotContains(t, string(data), "publicKeyMultibase")
		require.NotContains(t, string(data), "threshold")
	})
}

func TestParseDocument(t *testing.T) {
	t.Run("conditional proof entry", func(t *testing.T) {
		data := []byte(`{
			"id": "` + testDID + `",
			"verificationMethod": [{
				"id": "#EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv",
				"type": "ConditionalProof2022",
				"controller": "` + testDID + `",
				"threshold": 2,
				"conditionThreshold": ["#key-1", "#key-2"]
			}]
		}`)

		doc, err := ParseDocument(data)
		require.NoError(t, err)

		vm := doc.VerificationMethod[0]
		require.Equal(t, VMTypeConditionalProof, vm.Type)
		require.Equal(t, float64(2), vm.Threshold)
		require.Equal(t, []string{"#key-1", "#key-2"}, vm.ConditionThreshold)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"verificationMethod": []}`))
		require.Error(t, err)
	})

	t.Run("verification method without type", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"id": "` + testDID + `", "verificationMethod": [{"id": "#k"}]}`))
		require.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseDocument([]byte("{"))
		require.Error(t, err)
	})
}

func TestPublicKeyBytes(t *testing.T) {
	t.Run("jwk", func(t *testing.T) {
		raw, err := sampleDoc().VerificationMethod[0].PublicKeyBytes()
		require.NoError(t, err)
		require.Len(t, raw, 32)
	})

	t.Run("multibase", func(t *testing.T) {
		vm := &VerificationMethod{ID: "#k", PublicKeyMultibase: "f0001"}

		raw, err := vm.PublicKeyBytes()
		require.NoError(t, err)
		require.Equal(t, []byte{0x00, 0x01}, raw)
	})

	t.Run("no key material", func(t *testing.T) {
		vm := &VerificationMethod{ID: "#k"}
		_, err := vm.PublicKeyBytes()
		require.Error(t, err)
	})

	t.Run("bad jwk encoding", func(t *testing.T) {
		vm := &VerificationMethod{ID: "#k", PublicKeyJWK: &PublicKeyJWK{X: "!!"}}
		_, err := vm.PublicKeyBytes()
		require.Error(t, err)
	})
}

func TestResolutionJSONBytes(t *testing.T) {
	t.Run("round trip with metadata", func(t *testing.T) {
		res := &DocResolution{
			DIDDocument: sampleDoc(),
			ResolutionMetadata: &ResolutionMetadata{
				ContentType: ContentTypeDIDJSON,
				Retrieved:   "2024-05-01T12:00:00Z",
			},
			DocumentMetadata: &DocumentMetadata{
				Witnesses: []Witness{
					{Idx: 0, Scheme: "http", URL: "http://witness.example:5632/"},
				},
				VersionID:    "3",
				EquivalentID: []string{"did:webs:other.example:EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"},
			},
		}

		data, err := res.JSONBytes()
		require.NoError(t, err)
		require.Contains(t, string(data), `"didDocument"`)
		require.Contains(t, string(data), `"didResolutionMetadata"`)
		require.Contains(t, string(data), `"didDocumentMetadata"`)

		parsed, err := ParseResolution(data)
		require.NoError(t, err)
		require.Equal(t, res, parsed)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := (&DocResolution{}).JSONBytes()
		require.ErrorIs(t, err, ErrMissingDocumentField)

		_, err = ParseResolution([]byte(`{"didResolutionMetadata": {}}`))
		require.ErrorIs(t, err, ErrMissingDocumentField)
	})
}

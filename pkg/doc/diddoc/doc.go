/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package diddoc holds the typed DID document model produced for did:webs
// identifiers, the did-resolution-result envelope around it, and the
// did:web(s) scheme converter. Documents are plain records internally and
// take their JSON field names only at the serialization boundary.
package diddoc

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
)

// Verification method types emitted into DID documents.
const (
	VMTypeJSONWebKey       = "JsonWebKey"
	VMTypeConditionalProof = "ConditionalProof2022"
)

// ContentTypeDIDJSON is the content type reported in resolution metadata.
const ContentTypeDIDJSON = "application/did+json"

// ErrEmptyDocument is returned when a conversion is asked to operate on an
// absent document.
var ErrEmptyDocument = errors.New("empty DID document")

// ErrMissingDocumentField is returned when a resolution result lacks the
// nested didDocument field.
var ErrMissingDocumentField = errors.New("resolution result is missing the didDocument field")

// Doc is a DID document.
type Doc struct {
	ID                 string
	VerificationMethod []VerificationMethod
	Service            []Service
	AlsoKnownAs        []string
}

// PublicKeyJWK is the JSON Web Key carried by a JsonWebKey verification
// method.
type PublicKeyJWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
}

// WeightedCondition is one condition of a weighted-threshold proof.
type WeightedCondition struct {
	Condition string `json:"condition"`
	Weight    int    `json:"weight"`
}

// VerificationMethod is a single entry of a document's verificationMethod
// list, either a JsonWebKey key entry or a ConditionalProof2022 threshold
// entry.
type VerificationMethod struct {
	ID                         string
	Type                       string
	Controller                 string
	PublicKeyJWK               *PublicKeyJWK
	PublicKeyMultibase         string
	Threshold                  float64
	ConditionThreshold         []string
	ConditionWeightedThreshold []WeightedCondition
}

// PublicKeyBytes returns the raw public key bytes of a key verification
// method, decoding whichever of publicKeyJwk or publicKeyMultibase the
// entry carries.
func (vm *VerificationMethod) PublicKeyBytes() ([]byte, error) {
	switch {
	case vm.PublicKeyJWK != nil:
		raw, err := base64.RawURLEncoding.DecodeString(vm.PublicKeyJWK.X)
		if err != nil {
			return nil, fmt.Errorf("decode publicKeyJwk x of %s: %w", vm.ID, err)
		}

		return raw, nil
	case vm.PublicKeyMultibase != "":
		_, raw, err := multibase.Decode(vm.PublicKeyMultibase)
		if err != nil {
			return nil, fmt.Errorf("decode publicKeyMultibase of %s: %w", vm.ID, err)
		}

		return raw, nil
	default:
		return nil, fmt.Errorf("verification method %s carries no key material", vm.ID)
	}
}

// Service is one service entry of a DID document. ServiceEndpoint maps
// protocol to host.
type Service struct {
	ID              string
	Type            string
	ServiceEndpoint map[string]string
}

// Witness is one witness location entry of the document metadata.
type Witness struct {
	Idx    int    `json:"idx"`
	Scheme string `json:"scheme"`
	URL    string `json:"url"`
}

// ResolutionMetadata describes the resolution process.
type ResolutionMetadata struct {
	ContentType string `json:"contentType"`
	Retrieved   string `json:"retrieved"`
}

// DocumentMetadata carries event-log-derived metadata about the document.
type DocumentMetadata struct {
	Witnesses    []Witness `json:"witnesses"`
	VersionID    string    `json:"versionId"`
	EquivalentID []string  `json:"equivalentId"`
}

// DocResolution wraps a DID document with resolution and document metadata.
// The metadata fields are nil when the caller did not request them.
type DocResolution struct {
	DIDDocument        *Doc
	ResolutionMetadata *ResolutionMetadata
	DocumentMetadata   *DocumentMetadata
}

type rawVerificationMethod struct {
	ID                         string              `json:"id"`
	Type                       string              `json:"type"`
	Controller                 string              `json:"controller"`
	PublicKeyJWK               *PublicKeyJWK       `json:"publicKeyJwk,omitempty"`
	PublicKeyMultibase         string              `json:"publicKeyMultibase,omitempty"`
	Threshold                  float64             `json:"threshold,omitempty"`
	ConditionThreshold         []string            `json:"conditionThreshold,omitempty"`
	ConditionWeightedThreshold []WeightedCondition `json:"conditionWeightedThreshold,omitempty"`
}

type rawService struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	ServiceEndpoint map[string]string `json:"serviceEndpoint"`
}

type rawDoc struct {
	ID                 string                  `json:"id"`
	VerificationMethod []rawVerificationMethod `json:"verificationMethod"`
	Service            []rawService            `json:"service"`
	AlsoKnownAs        []string                `json:"alsoKnownAs"`
}

type rawResolution struct {
	DIDDocument        *rawDoc             `json:"didDocument"`
	ResolutionMetadata *ResolutionMetadata `json:"didResolutionMetadata,omitempty"`
	DocumentMetadata   *DocumentMetadata   `json:"didDocumentMetadata,omitempty"`
}

// JSONBytes serializes the document to its wire form. Absent lists are
// serialized as empty arrays, never null.
func (doc *Doc) JSONBytes() ([]byte, error) {
	raw, err := json.Marshal(doc.raw())
	if err != nil {
		return nil, fmt.Errorf("marshal DID document: %w", err)
	}

	return raw, nil
}

func (doc *Doc) raw() *rawDoc {
	raw := &rawDoc{
		ID:                 doc.ID,
		VerificationMethod: []rawVerificationMethod{},
		Service:            []rawService{},
		AlsoKnownAs:        []string{},
	}

	for i := range doc.VerificationMethod {
		vm := &doc.VerificationMethod[i]
		raw.VerificationMethod = append(raw.VerificationMethod, rawVerificationMethod{
			ID:                         vm.ID,
			Type:                       vm.Type,
			Controller:                 vm.Controller,
			PublicKeyJWK:               vm.PublicKeyJWK,
			PublicKeyMultibase:         vm.PublicKeyMultibase,
			Threshold:                  vm.Threshold,
			ConditionThreshold:         vm.ConditionThreshold,
			ConditionWeightedThreshold: vm.ConditionWeightedThreshold,
		})
	}

	for _, svc := range doc.Service {
		raw.Service = append(raw.Service, rawService(svc))
	}

	if doc.AlsoKnownAs != nil {
		raw.AlsoKnownAs = doc.AlsoKnownAs
	}

	return raw
}

// JSONBytes serializes the resolution result to its wire form.
func (r *DocResolution) JSONBytes() ([]byte, error) {
	if r.DIDDocument == nil {
		return nil, ErrMissingDocumentField
	}

	raw := &rawResolution{
		DIDDocument:        r.DIDDocument.raw(),
		ResolutionMetadata: r.ResolutionMetadata,
		DocumentMetadata:   r.DocumentMetadata,
	}

	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal DID resolution result: %w", err)
	}

	return bytes, nil
}

// ParseDocument reads a DID document from its JSON wire form. Fields
// outside the typed model, such as @context, are discarded.
func ParseDocument(data []byte) (*Doc, error) {
	raw := &rawDoc{}

	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("unmarshal DID document: %w", err)
	}

	return docFromRaw(raw)
}

// ParseResolution reads a DID resolution result from its JSON wire form.
func ParseResolution(data []byte) (*DocResolution, error) {
	raw := &rawResolution{}

	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("unmarshal DID resolution result: %w", err)
	}

	if raw.DIDDocument == nil {
		return nil, ErrMissingDocumentField
	}

	doc, err := docFromRaw(raw.DIDDocument)
	if err != nil {
		return nil, err
	}

	return &DocResolution{
		DIDDocument:        doc,
		ResolutionMetadata: raw.ResolutionMetadata,
		DocumentMetadata:   raw.DocumentMetadata,
	}, nil
}

func docFromRaw(raw *rawDoc) (*Doc, error) {
	if raw.ID == "" {
		return nil, errors.New("DID document has no id")
	}

	doc := &Doc{ID: raw.ID, AlsoKnownAs: raw.AlsoKnownAs}

	for _, vm := range raw.VerificationMethod {
		if vm.ID == "" || vm.Type == "" {
			return nil, fmt.Errorf("verification method of %s lacks id or type", raw.ID)
		}

		doc.VerificationMethod = append(doc.VerificationMethod, VerificationMethod{
			ID:                         vm.ID,
			Type:                       vm.Type,
			Controller:                 vm.Controller,
			PublicKeyJWK:               vm.PublicKeyJWK,
			PublicKeyMultibase:         vm.PublicKeyMultibase,
			Threshold:                  vm.Threshold,
			ConditionThreshold:         vm.ConditionThreshold,
			ConditionWeightedThreshold: vm.ConditionWeightedThreshold,
		})
	}

	for _, svc := range raw.Service {
		doc.Service = append(doc.Service, Service(svc))
	}

	return doc, nil
}

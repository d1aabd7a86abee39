/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package diddoc

import (
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("didwebs-go/doc/diddoc")

const (
	webPrefix  = "did:web:"
	websPrefix = "did:webs:"
)

// ToDIDWeb returns a copy of doc with the did:webs scheme rewritten to
// did:web in the document id and in every verification method controller.
// The input document is not modified.
func ToDIDWeb(doc *Doc) (*Doc, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	out := doc.copy()
	out.ID = websToWeb(out.ID)

	for i := range out.VerificationMethod {
		out.VerificationMethod[i].Controller = websToWeb(out.VerificationMethod[i].Controller)
	}

	return out, nil
}

// ToDIDWebResolution applies ToDIDWeb to the document nested in a
// resolution result, leaving the metadata untouched.
func ToDIDWebResolution(res *DocResolution) (*DocResolution, error) {
	if res == nil || res.DIDDocument == nil {
		return nil, ErrEmptyDocument
	}

	doc, err := ToDIDWeb(res.DIDDocument)
	if err != nil {
		return nil, err
	}

	return &DocResolution{
		DIDDocument:        doc,
		ResolutionMetadata: res.ResolutionMetadata,
		DocumentMetadata:   res.DocumentMetadata,
	}, nil
}

// FromDIDWeb returns a copy of doc with the did:web scheme rewritten back
// to did:webs in the document id and every verification method controller.
// Ids already using did:webs are left alone, so the conversion is safe to
// apply twice.
func FromDIDWeb(doc *Doc) (*Doc, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	out := doc.copy()

	if rewritten := webToWebs(out.ID); rewritten != out.ID {
		out.ID = rewritten
		logger.Debugf("rewrote document id to %s", out.ID)
	}

	for i := range out.VerificationMethod {
		out.VerificationMethod[i].Controller = webToWebs(out.VerificationMethod[i].Controller)
	}

	return out, nil
}

// FromDIDWebResolution applies FromDIDWeb to the document nested in a
// resolution result. A result without a nested document is rejected.
func FromDIDWebResolution(res *DocResolution) (*DocResolution, error) {
	if res == nil {
		return nil, ErrEmptyDocument
	}

	if res.DIDDocument == nil {
		return nil, ErrMissingDocumentField
	}

	doc, err := FromDIDWeb(res.DIDDocument)
	if err != nil {
		return nil, err
	}

	return &DocResolution{
		DIDDocument:        doc,
		ResolutionMetadata: res.ResolutionMetadata,
		DocumentMetadata:   res.DocumentMetadata,
	}, nil
}

func websToWeb(id string) string {
	if strings.HasPrefix(id, websPrefix) {
		return webPrefix + id[len(websPrefix):]
	}

	return id
}

func webToWebs(id string) string {
	if strings.HasPrefix(id, webPrefix) && !strings.HasPrefix(id, websPrefix) {
		return websPrefix + id[len(webPrefix):]
	}

	return id
}

// copy returns a deep copy so scheme rewrites never alias the caller's
// document.
func (doc *Doc) copy() *Doc {
	out := &Doc{ID: doc.ID}

	for _, vm := range doc.VerificationMethod {
		cp := vm

		if vm.PublicKeyJWK != nil {
			jwk := *vm.PublicKeyJWK
			cp.PublicKeyJWK = &jwk
		}

		cp.ConditionThreshold = append([]string(nil), vm.ConditionThreshold...)
		cp.ConditionWeightedThreshold = append([]WeightedCondition(nil), vm.ConditionWeightedThreshold...)

		out.VerificationMethod = append(out.VerificationMethod, cp)
	}

	for _, svc := range doc.Service {
		cp := svc
		cp.ServiceEndpoint = make(map[string]string, len(svc.ServiceEndpoint))

		for proto, host := range svc.ServiceEndpoint {
			cp.ServiceEndpoint[proto] = host
		}

		out.Service = append(out.Service, cp)
	}

	out.AlsoKnownAs = append([]string(nil), doc.AlsoKnownAs...)

	return out
}

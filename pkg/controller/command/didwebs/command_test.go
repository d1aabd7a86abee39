/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/weboftrust/didwebs-go/pkg/controller/command"
	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
	"github.com/weboftrust/didwebs-go/pkg/keystate"
	mockkeystate "github.com/weboftrust/didwebs-go/pkg/mock/keystate"
	"github.com/weboftrust/didwebs-go/pkg/vdr"
	"github.com/weboftrust/didwebs-go/pkg/vdr/webs"
)

const (
	testAID = "EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"
	testKey = "DKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"
	testDID = "did:webs:example.com:" + testAID
)

type mockProvider struct {
	registry vdr.Resolver
}

func (p *mockProvider) VDRegistry() vdr.Resolver {
	return p.registry
}

func newProvider() *mockProvider {
	svc := &mockkeystate.Service{
		States: map[string]*keystate.KeyState{
			testAID: {
				Keys:   []keystate.Key{{ID: testKey, Raw: bytes.Repeat([]byte{1}, 32)}},
				Policy: keystate.Single{},
			},
		},
	}

	return &mockProvider{registry: vdr.New(vdr.WithVDR(webs.New(svc)))}
}

func newCommand(t *testing.T) *Command {
	t.Helper()

	return New(newProvider(), WithMetrics(NewMetrics(prometheus.NewRegistry())))
}

func TestNew(t *testing.T) {
	cmd := newCommand(t)

	handlers := cmd.GetHandlers()
	require.Len(t, handlers, 4)

	for _, h := range handlers {
		require.Equal(t, CommandName, h.Name())
		require.NotNil(t, h.Handle())
	}
}

func TestResolveDID(t *testing.T) {
	t.Run("document only", func(t *testing.T) {
		cmd := newCommand(t)

		var b bytes.Buffer
		err := cmd.ResolveDID(&b, bytes.NewBufferString(`{"did":"`+testDID+`"}`))
		require.Nil(t, err)

		doc, parseErr := diddoc.ParseDocument(b.Bytes())
		require.NoError(t, parseErr)
		require.Equal(t, testDID, doc.ID)
		require.NotContains(t, b.String(), "didDocument")
	})

	t.Run("metadata via request field", func(t *testing.T) {
		cmd := newCommand(t)

		var b bytes.Buffer
		err := cmd.ResolveDID(&b, bytes.NewBufferString(`{"did":"`+testDID+`","meta":true}`))
		require.Nil(t, err)

		res, parseErr := diddoc.ParseResolution(b.Bytes())
		require.NoError(t, parseErr)
		require.Equal(t, diddoc.ContentTypeDIDJSON, res.ResolutionMetadata.ContentType)
	})

	t.Run("metadata via DID query", func(t *testing.T) {
		cmd := newCommand(t)

		var b bytes.Buffer
		err := cmd.ResolveDID(&b, bytes.NewBufferString(`{"did":"`+testDID+`?meta=true"}`))
		require.Nil(t, err)
		require.Contains(t, b.String(), "didResolutionMetadata")
	})

	t.Run("empty did", func(t *testing.T) {
		cmd := newCommand(t)

		err := cmd.ResolveDID(&bytes.Buffer{}, bytes.NewBufferString(`{}`))
		require.NotNil(t, err)
		require.Equal(t, InvalidRequestErrorCode, err.Code())
		require.Equal(t, command.ValidationError, err.Type())
	})

	t.Run("invalid request payload", func(t *testing.T) {
		cmd := newCommand(t)

		err := cmd.ResolveDID(&bytes.Buffer{}, bytes.NewBufferString(`{`))
		require.NotNil(t, err)
		require.Equal(t, InvalidRequestErrorCode, err.Code())
	})

	t.Run("malformed did", func(t *testing.T) {
		cmd := newCommand(t)

		err := cmd.ResolveDID(&bytes.Buffer{}, bytes.NewBufferString(`{"did":"did:webs:example.com:Zabc"}`))
		require.NotNil(t, err)
		require.Equal(t, InvalidRequestErrorCode, err.Code())
	})

	t.Run("unknown aid", func(t *testing.T) {
		cmd := New(&mockProvider{
			registry: vdr.New(vdr.WithVDR(webs.New(&mockkeystate.Service{}))),
		})

		err := cmd.ResolveDID(&bytes.Buffer{}, bytes.NewBufferString(`{"did":"`+testDID+`"}`))
		require.NotNil(t, err)
		require.Equal(t, ResolveDIDErrorCode, err.Code())
		require.Equal(t, command.ExecuteError, err.Type())
	})
}

func TestReEncodeDID(t *testing.T) {
	t.Run("legacy port form", func(t *testing.T) {
		cmd := newCommand(t)

		var b bytes.Buffer
		err := cmd.ReEncodeDID(&b, bytes.NewBufferString(`{"did":"did:webs:example.com:8080:`+testAID+`"}`))
		require.Nil(t, err)

		var response ReEncodeDIDResponse
		require.NoError(t, json.Unmarshal(b.Bytes(), &response))
		require.Equal(t, "did:webs:example.com%3A8080:"+testAID, response.DID)
	})

	t.Run("empty did", func(t *testing.T) {
		cmd := newCommand(t)

		err := cmd.ReEncodeDID(&bytes.Buffer{}, bytes.NewBufferString(`{}`))
		require.NotNil(t, err)
		require.Equal(t, InvalidRequestErrorCode, err.Code())
	})

	t.Run("did:web is not re-encodable", func(t *testing.T) {
		cmd := newCommand(t)

		err := cmd.ReEncodeDID(&bytes.Buffer{}, bytes.NewBufferString(`{"did":"did:web:example.com:`+testAID+`"}`))
		require.NotNil(t, err)
		require.Equal(t, ReEncodeDIDErrorCode, err.Code())
	})
}

func TestConvertDID(t *testing.T) {
	doc := &diddoc.Doc{
		ID: testDID,
		VerificationMethod: []diddoc.VerificationMethod{
			{ID: "#" + testKey, Type: diddoc.VMTypeJSONWebKey, Controller: testDID},
		},
	}

	docBytes, err := doc.JSONBytes()
	require.NoError(t, err)

	t.Run("to web and back", func(t *testing.T) {
		cmd := newCommand(t)

		var web bytes.Buffer
		cmdErr := cmd.ToDIDWeb(&web, bytes.NewBufferString(`{"document":`+string(docBytes)+`}`))
		require.Nil(t, cmdErr)
		require.Contains(t, web.String(), `"did:web:example.com:`+testAID+`"`)

		var back bytes.Buffer
		cmdErr = cmd.FromDIDWeb(&back, bytes.NewBufferString(`{"document":`+web.String()+`}`))
		require.Nil(t, cmdErr)

		restored, parseErr := diddoc.ParseDocument(back.Bytes())
		require.NoError(t, parseErr)
		require.Equal(t, testDID, restored.ID)
		require.Equal(t, testDID, restored.VerificationMethod[0].Controller)
	})

	t.Run("resolution result with meta flag", func(t *testing.T) {
		cmd := newCommand(t)

		res := &diddoc.DocResolution{
			DIDDocument:        doc,
			DocumentMetadata:   &diddoc.DocumentMetadata{VersionID: "3"},
			ResolutionMetadata: &diddoc.ResolutionMetadata{ContentType: diddoc.ContentTypeDIDJSON},
		}

		resBytes, marshalErr := res.JSONBytes()
		require.NoError(t, marshalErr)

		var b bytes.Buffer
		cmdErr := cmd.ToDIDWeb(&b, bytes.NewBufferString(`{"document":`+string(resBytes)+`,"meta":true}`))
		require.Nil(t, cmdErr)

		converted, parseErr := diddoc.ParseResolution(b.Bytes())
		require.NoError(t, parseErr)
		require.Equal(t, "did:web:example.com:"+testAID, converted.DIDDocument.ID)
		require.Equal(t, "3", converted.DocumentMetadata.VersionID)
	})

	t.Run("empty document", func(t *testing.T) {
		cmd := newCommand(t)

		cmdErr := cmd.ToDIDWeb(&bytes.Buffer{}, bytes.NewBufferString(`{}`))
		require.NotNil(t, cmdErr)
		require.Equal(t, InvalidRequestErrorCode, cmdErr.Code())
	})

	t.Run("document that is not a DID document", func(t *testing.T) {
		cmd := newCommand(t)

		cmdErr := cmd.FromDIDWeb(&bytes.Buffer{}, bytes.NewBufferString(`{"document":{"x":1}}`))
		require.NotNil(t, cmdErr)
		require.Equal(t, ConvertDocErrorCode, cmdErr.Code())
	})
}

/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vdr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
)

const testDID = "did:webs:example.com:EKW0NeM1AWZuW-nAwVl1p2TQzvR9RN3eD0GhupkJgjcv"

type mockVDR struct {
	method   string
	readFunc func(did string, opts ...ResolveOption) (*diddoc.DocResolution, error)
	closeErr error
}

func (m *mockVDR) Read(did string, opts ...ResolveOption) (*diddoc.DocResolution, error) {
	if m.readFunc != nil {
		return m.readFunc(did, opts...)
	}

	return &diddoc.DocResolution{DIDDocument: &diddoc.Doc{ID: did}}, nil
}

func (m *mockVDR) Accept(method string) bool {
	return method == m.method
}

func (m *mockVDR) Close() error {
	return m.closeErr
}

func TestRegistryResolve(t *testing.T) {
	t.Run("dispatches on method", func(t *testing.T) {
		r := New(WithVDR(&mockVDR{method: "webs"}))

		res, err := r.Resolve(testDID)
		require.NoError(t, err)
		require.Equal(t, testDID, res.DIDDocument.ID)
	})

	t.Run("unsupported method", func(t *testing.T) {
		r := New(WithVDR(&mockVDR{method: "webs"}))

		_, err := r.Resolve("did:peer:abc")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not supported")
	})

	t.Run("malformed did", func(t *testing.T) {
		r := New()

		_, err := r.Resolve("did:webs")
		require.Error(t, err)
		require.Contains(t, err.Error(), "wrong format")
	})

	t.Run("read failure is wrapped", func(t *testing.T) {
		r := New(WithVDR(&mockVDR{
			method: "webs",
			readFunc: func(string, ...ResolveOption) (*diddoc.DocResolution, error) {
				return nil, errors.New("state lookup failed")
			},
		}))

		_, err := r.Resolve(testDID)
		require.Error(t, err)
		require.Contains(t, err.Error(), "did method read failed")
	})

	t.Run("options reach the method", func(t *testing.T) {
		var got ResolveOpts

		r := New(WithVDR(&mockVDR{
			method: "webs",
			readFunc: func(did string, opts ...ResolveOption) (*diddoc.DocResolution, error) {
				for _, opt := range opts {
					opt(&got)
				}

				return &diddoc.DocResolution{DIDDocument: &diddoc.Doc{ID: did}}, nil
			},
		}))

		_, err := r.Resolve(testDID, WithAID("EAID"), WithMeta(true))
		require.NoError(t, err)
		require.Equal(t, "EAID", got.AID)
		require.True(t, got.Meta)
	})
}

func TestRegistryClose(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := New(WithVDR(&mockVDR{method: "webs"}))
		require.NoError(t, r.Close())
	})

	t.Run("failure", func(t *testing.T) {
		r := New(WithVDR(&mockVDR{method: "webs", closeErr: errors.New("close error")}))
		require.EqualError(t, r.Close(), "close vdr: close error")
	})
}

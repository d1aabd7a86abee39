/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didwebs exposes the didwebs controller command over REST.
package didwebs

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/weboftrust/didwebs-go/pkg/controller/command"
	cmddidwebs "github.com/weboftrust/didwebs-go/pkg/controller/command/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/controller/internal/cmdutil"
	"github.com/weboftrust/didwebs-go/pkg/controller/rest"
	"github.com/weboftrust/didwebs-go/pkg/vdr"
)

// constants for the didwebs operations.
const (
	DidwebsOperationID = "/didwebs"
	ResolveDIDPath     = DidwebsOperationID + "/resolve/{id}"
	ReEncodeDIDPath    = DidwebsOperationID + "/reencode"
	ToDIDWebPath       = DidwebsOperationID + "/to-web"
	FromDIDWebPath     = DidwebsOperationID + "/from-web"
)

// provider contains dependencies for the didwebs controller command.
type provider interface {
	VDRegistry() vdr.Resolver
}

type didwebsCommand interface {
	ResolveDID(rw io.Writer, req io.Reader) command.Error
	ReEncodeDID(rw io.Writer, req io.Reader) command.Error
	ToDIDWeb(rw io.Writer, req io.Reader) command.Error
	FromDIDWeb(rw io.Writer, req io.Reader) command.Error
}

// Operation contains the REST operations provided by the didwebs controller.
type Operation struct {
	handlers []rest.Handler
	command  didwebsCommand
}

// New returns new didwebs operations rest client instance.
func New(p provider, opts ...cmddidwebs.Option) *Operation {
	o := &Operation{command: cmddidwebs.New(p, opts...)}
	o.registerHandler()

	return o
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []rest.Handler {
	return o.handlers
}

// registerHandler register handlers to be exposed from this protocol service as REST API endpoints.
func (o *Operation) registerHandler() {
	o.handlers = []rest.Handler{
		cmdutil.NewHTTPHandler(ResolveDIDPath, http.MethodGet, o.ResolveDID),
		cmdutil.NewHTTPHandler(ReEncodeDIDPath, http.MethodPost, o.ReEncodeDID),
		cmdutil.NewHTTPHandler(ToDIDWebPath, http.MethodPost, o.ToDIDWeb),
		cmdutil.NewHTTPHandler(FromDIDWebPath, http.MethodPost, o.FromDIDWeb),
	}
}

// ResolveDID swagger:route GET /didwebs/resolve/{id} didwebs resolveDID
//
// Resolve did.
//
// Responses:
//    default: genericError
func (o *Operation) ResolveDID(rw http.ResponseWriter, req *http.Request) {
	did, found := getDIDFromRequest(rw, req)
	if !found {
		return
	}

	request, err := json.Marshal(resolveDIDQuery{
		DID:  did,
		Meta: req.URL.Query().Get("meta") == "true",
	})
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusInternalServerError, cmddidwebs.ResolveDIDErrorCode,
			fmt.Errorf("marshal resolve request: %w", err))
		return
	}

	rest.Execute(o.command.ResolveDID, rw, bytes.NewBuffer(request))
}

// ReEncodeDID swagger:route POST /didwebs/reencode didwebs reEncodeDID
//
// Re-encode did into canonical form.
//
// Responses:
//    default: genericError
func (o *Operation) ReEncodeDID(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.ReEncodeDID, rw, req.Body)
}

// ToDIDWeb swagger:route POST /didwebs/to-web didwebs toDIDWeb
//
// Rewrite a did:webs document to its did:web rendering.
//
// Responses:
//    default: genericError
func (o *Operation) ToDIDWeb(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.ToDIDWeb, rw, req.Body)
}

// FromDIDWeb swagger:route POST /didwebs/from-web didwebs fromDIDWeb
//
// Rewrite a did:web document back to its did:webs rendering.
//
// Responses:
//    default: genericError
func (o *Operation) FromDIDWeb(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.FromDIDWeb, rw, req.Body)
}

// getDIDFromRequest returns the base64 encoded DID from the request path.
func getDIDFromRequest(rw http.ResponseWriter, req *http.Request) (string, bool) {
	id := mux.Vars(req)["id"]
	if id == "" {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, cmddidwebs.InvalidRequestErrorCode,
			fmt.Errorf("empty DID"))
		return "", false
	}

	did, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, cmddidwebs.InvalidRequestErrorCode,
			fmt.Errorf("invalid id"))
		return "", false
	}

	return string(did), true
}

/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didwebs contains the controller command operations for did:webs
// resolution, re-encoding and scheme conversion.
package didwebs

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/weboftrust/didwebs-go/pkg/controller/command"
	"github.com/weboftrust/didwebs-go/pkg/controller/internal/cmdutil"
	"github.com/weboftrust/didwebs-go/pkg/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/doc/diddoc"
	"github.com/weboftrust/didwebs-go/pkg/internal/logutil"
	"github.com/weboftrust/didwebs-go/pkg/vdr"
)

var logger = log.New("didwebs-go/command/didwebs")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.DIDWebs)

	// ResolveDIDErrorCode for resolve did errors.
	ResolveDIDErrorCode

	// ReEncodeDIDErrorCode for re-encode did errors.
	ReEncodeDIDErrorCode

	// ConvertDocErrorCode for document scheme conversion errors.
	ConvertDocErrorCode
)

// constants for the didwebs controller's methods.
const (
	// command name.
	CommandName = "didwebs"

	// command methods.
	ResolveDIDCommandMethod  = "ResolveDID"
	ReEncodeDIDCommandMethod = "ReEncodeDID"
	ToDIDWebCommandMethod    = "ToDIDWeb"
	FromDIDWebCommandMethod  = "FromDIDWeb"

	// error messages.
	errEmptyDID      = "did is mandatory"
	errEmptyDocument = "document is mandatory"

	// log constants.
	didID = "did"

	// metric labels.
	resultOK         = "ok"
	resultError      = "error"
	directionToWeb   = "to_web"
	directionFromWeb = "from_web"
)

// provider contains dependencies for the didwebs controller command
// operations.
type provider interface {
	VDRegistry() vdr.Resolver
}

// Option configures the command.
type Option func(*Command)

// WithMetrics attaches metrics to the command. Without it the command runs
// unobserved.
func WithMetrics(m *Metrics) Option {
	return func(c *Command) {
		c.metrics = m
	}
}

// Command contains command operations provided by the didwebs controller.
type Command struct {
	ctx     provider
	metrics *Metrics
}

// New returns new didwebs controller command instance.
func New(ctx provider, opts ...Option) *Command {
	c := &Command{ctx: ctx}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetHandlers returns list of all commands supported by this controller command.
func (o *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, ResolveDIDCommandMethod, o.ResolveDID),
		cmdutil.NewCommandHandler(CommandName, ReEncodeDIDCommandMethod, o.ReEncodeDID),
		cmdutil.NewCommandHandler(CommandName, ToDIDWebCommandMethod, o.ToDIDWeb),
		cmdutil.NewCommandHandler(CommandName, FromDIDWebCommandMethod, o.FromDIDWeb),
	}
}

// ResolveDID resolves a did:webs, did:web or did:keri DID. Resolution
// metadata is included when the request asks for it, either through the
// request body or through a meta parameter in the DID query component.
func (o *Command) ResolveDID(rw io.Writer, req io.Reader) command.Error {
	start := time.Now()

	var request ResolveDIDRequest

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, ResolveDIDCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.DID == "" {
		logutil.LogDebug(logger, CommandName, ResolveDIDCommandMethod, errEmptyDID)
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf(errEmptyDID))
	}

	meta, cmdErr := o.wantsMeta(&request)
	if cmdErr != nil {
		return cmdErr
	}

	doc, err := o.ctx.VDRegistry().Resolve(request.DID, vdr.WithAID(request.AID), vdr.WithMeta(meta))
	if err != nil {
		o.metrics.IncrementResolution(resultError)
		logutil.LogError(logger, CommandName, ResolveDIDCommandMethod, "resolve did doc: "+err.Error(),
			logutil.CreateKeyValueString(didID, request.DID))

		return command.NewExecuteError(ResolveDIDErrorCode, fmt.Errorf("resolve did doc: %w", err))
	}

	var docBytes []byte

	if meta {
		docBytes, err = doc.JSONBytes()
	} else {
		docBytes, err = doc.DIDDocument.JSONBytes()
	}

	if err != nil {
		o.metrics.IncrementResolution(resultError)
		logutil.LogError(logger, CommandName, ResolveDIDCommandMethod, "unmarshal did resolution response: "+err.Error(),
			logutil.CreateKeyValueString(didID, request.DID))

		return command.NewExecuteError(ResolveDIDErrorCode, fmt.Errorf("unmarshal did resolution response: %w", err))
	}

	_, err = rw.Write(docBytes)
	if err != nil {
		logger.Errorf("Unable to send response, %s", err)
	}

	o.metrics.IncrementResolution(resultOK)
	o.metrics.ObserveResolveDuration(start)

	logutil.LogDebug(logger, CommandName, ResolveDIDCommandMethod, "success",
		logutil.CreateKeyValueString(didID, request.DID))

	return nil
}

// wantsMeta reports whether the resolution should carry metadata, honoring
// both the request field and the DID's query component.
func (o *Command) wantsMeta(request *ResolveDIDRequest) (bool, command.Error) {
	if request.Meta {
		return true, nil
	}

	parsed, err := didwebs.Parse(request.DID)
	if err != nil {
		logutil.LogInfo(logger, CommandName, ResolveDIDCommandMethod, "parse did: "+err.Error(),
			logutil.CreateKeyValueString(didID, request.DID))

		return false, command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("parse did: %w", err))
	}

	params, err := didwebs.ResolutionParamsFromQuery(parsed.Query)
	if err != nil {
		logutil.LogInfo(logger, CommandName, ResolveDIDCommandMethod, "decode did query: "+err.Error(),
			logutil.CreateKeyValueString(didID, request.DID))

		return false, command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("decode did query: %w", err))
	}

	return params.Meta, nil
}

// ReEncodeDID repairs a legacy did:webs or did:keri DID into its canonical
// percent-encoded form.
func (o *Command) ReEncodeDID(rw io.Writer, req io.Reader) command.Error {
	var request ReEncodeDIDRequest

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, ReEncodeDIDCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.DID == "" {
		logutil.LogDebug(logger, CommandName, ReEncodeDIDCommandMethod, errEmptyDID)
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf(errEmptyDID))
	}

	reencoded, err := didwebs.ReEncode(request.DID)
	if err != nil {
		logutil.LogError(logger, CommandName, ReEncodeDIDCommandMethod, "re-encode did: "+err.Error(),
			logutil.CreateKeyValueString(didID, request.DID))

		return command.NewValidationError(ReEncodeDIDErrorCode, fmt.Errorf("re-encode did: %w", err))
	}

	command.WriteNillableResponse(rw, &ReEncodeDIDResponse{DID: reencoded}, logger)

	logutil.LogDebug(logger, CommandName, ReEncodeDIDCommandMethod, "success",
		logutil.CreateKeyValueString(didID, request.DID))

	return nil
}

// ToDIDWeb rewrites a did:webs document, or resolution result, to its
// did:web rendering.
func (o *Command) ToDIDWeb(rw io.Writer, req io.Reader) command.Error {
	return o.convert(rw, req, ToDIDWebCommandMethod, directionToWeb)
}

// FromDIDWeb rewrites a did:web document, or resolution result, back to its
// did:webs rendering.
func (o *Command) FromDIDWeb(rw io.Writer, req io.Reader) command.Error {
	return o.convert(rw, req, FromDIDWebCommandMethod, directionFromWeb)
}

func (o *Command) convert(rw io.Writer, req io.Reader, method, direction string) command.Error {
	var request ConvertDocRequest

	err := json.NewDecoder(req).Decode(&request)
	if err != nil {
		logutil.LogInfo(logger, CommandName, method, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if len(request.Document) == 0 {
		logutil.LogDebug(logger, CommandName, method, errEmptyDocument)
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf(errEmptyDocument))
	}

	docBytes, err := o.convertDocument(&request, direction)
	if err != nil {
		logutil.LogError(logger, CommandName, method, "convert did doc: "+err.Error())

		return command.NewValidationError(ConvertDocErrorCode, fmt.Errorf("convert did doc: %w", err))
	}

	_, err = rw.Write(docBytes)
	if err != nil {
		logger.Errorf("Unable to send response, %s", err)
	}

	o.metrics.IncrementConversion(direction)

	logutil.LogDebug(logger, CommandName, method, "success")

	return nil
}

func (o *Command) convertDocument(request *ConvertDocRequest, direction string) ([]byte, error) {
	if request.Meta {
		res, err := diddoc.ParseResolution(request.Document)
		if err != nil {
			return nil, fmt.Errorf("parse did resolution result: %w", err)
		}

		if direction == directionToWeb {
			res, err = diddoc.ToDIDWebResolution(res)
		} else {
			res, err = diddoc.FromDIDWebResolution(res)
		}

		if err != nil {
			return nil, err
		}

		return res.JSONBytes()
	}

	doc, err := diddoc.ParseDocument(request.Document)
	if err != nil {
		return nil, fmt.Errorf("parse did doc: %w", err)
	}

	if direction == directionToWeb {
		doc, err = diddoc.ToDIDWeb(doc)
	} else {
		doc, err = diddoc.FromDIDWeb(doc)
	}

	if err != nil {
		return nil, err
	}

	return doc.JSONBytes()
}

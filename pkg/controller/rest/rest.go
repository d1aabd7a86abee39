/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/weboftrust/didwebs-go/pkg/controller/command"
)

var logger = log.New("didwebs-go/controller/rest")

// genericErrorBody is the JSON body written for all failed requests.
type genericErrorBody struct {
	Code    command.Code `json:"code"`
	Message string       `json:"message"`
}

// Execute runs the given command and writes its error, if any, as an HTTP
// error response with a status code derived from the error type.
func Execute(exec command.Exec, rw http.ResponseWriter, req io.Reader) {
	if err := exec(rw, req); err != nil {
		SendError(rw, err)
	}
}

// SendError writes the command error to the response, mapping validation
// errors to 400 and execution errors to 500.
func SendError(rw http.ResponseWriter, err command.Error) {
	switch err.Type() {
	case command.ValidationError:
		SendHTTPStatusError(rw, http.StatusBadRequest, err.Code(), err)
	case command.ExecuteError:
		SendHTTPStatusError(rw, http.StatusInternalServerError, err.Code(), err)
	default:
		SendHTTPStatusError(rw, http.StatusInternalServerError, err.Code(), err)
	}
}

// SendHTTPStatusError sends an error response with the given HTTP status code.
func SendHTTPStatusError(rw http.ResponseWriter, statusCode int, code command.Code, err error) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)

	e := json.NewEncoder(rw).Encode(genericErrorBody{Code: code, Message: err.Error()})
	if e != nil {
		logger.Errorf("Unable to send error response, %s", e)
	}
}

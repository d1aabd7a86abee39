/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package controller aggregates the command and REST handlers of the
// didwebs resolver.
package controller

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/weboftrust/didwebs-go/pkg/controller/command"
	cmddidwebs "github.com/weboftrust/didwebs-go/pkg/controller/command/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/controller/rest"
	didwebsrest "github.com/weboftrust/didwebs-go/pkg/controller/rest/didwebs"
	"github.com/weboftrust/didwebs-go/pkg/vdr"
)

type allOpts struct {
	registerer prometheus.Registerer
}

// Opt represents a controller option.
type Opt func(opts *allOpts)

// WithMetricsRegisterer is an option for registering the controller metrics
// against the given registerer.
func WithMetricsRegisterer(reg prometheus.Registerer) Opt {
	return func(opts *allOpts) {
		opts.registerer = reg
	}
}

// provider contains the dependencies of the controller operations.
type provider interface {
	VDRegistry() vdr.Resolver
}

// GetRESTHandlers returns all REST handlers provided by controller.
func GetRESTHandlers(p provider, opts ...Opt) []rest.Handler {
	restAPIOpts := &allOpts{}

	for _, opt := range opts {
		opt(restAPIOpts)
	}

	didwebsOp := didwebsrest.New(p, commandOpts(restAPIOpts)...)

	return didwebsOp.GetRESTHandlers()
}

// GetCommandHandlers returns all command handlers provided by controller.
func GetCommandHandlers(p provider, opts ...Opt) []command.Handler {
	cmdOpts := &allOpts{}

	for _, opt := range opts {
		opt(cmdOpts)
	}

	didwebsCmd := cmddidwebs.New(p, commandOpts(cmdOpts)...)

	return didwebsCmd.GetHandlers()
}

func commandOpts(opts *allOpts) []cmddidwebs.Option {
	if opts.registerer == nil {
		return nil
	}

	return []cmddidwebs.Option{cmddidwebs.WithMetrics(cmddidwebs.NewMetrics(opts.registerer))}
}

/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didwebs-rest (did:webs Resolver REST Server) of didwebs-go.
//
//
// Terms Of Service:
//
//
//     Schemes: https
//     Version: 0.1.0
//     License: SPDX-License-Identifier: Apache-2.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/weboftrust/didwebs-go/cmd/didwebs-rest/startcmd"
)

// This is an application which starts the did:webs resolver controller API
// on a given port.
func main() {
	rootCmd := &cobra.Command{
		Use: "didwebs-rest",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	logger := log.New("didwebs-go/didwebs-rest")

	rootCmd.AddCommand(startcmd.Cmd(&startcmd.HTTPServer{}))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run didwebs-rest: %s", err)
	}
}

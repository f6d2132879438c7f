/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package niat-demo runs the token protocol end to end: single round trips and batched issuance with batch
// verification on both sides.
package main

import (
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/spf13/cobra"

	"github.com/aayux/niat/cmd/niat-demo/democmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "niat-demo",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	logger := log.New("niat/demo")

	rootCmd.AddCommand(democmd.RoundTripCmd(), democmd.BatchCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Fatalf("Failed to run niat-demo: %s", err)
	}
}

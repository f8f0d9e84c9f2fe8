/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the entrypoint for the mputil binary
// and calls only into mputil.Cmd(). No other
// function should be included in this package.
package main

import (
	"fmt"
	"os"

	"github.com/hyperledger/fabric-mpcsp/internal/mputil"
)

func main() {
	if err := mputil.Cmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mputil

import (
	"encoding/hex"
	"fmt"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func hashCmd(s *session) *cobra.Command {
	var alg string
	cmd := &cobra.Command{
		Use:   "hash <text>",
		Short: "Hash text with the provider.",
		Long:  "Hash text with the provider. Without --alg the hash named by MPCSP_HASH is used, SHA256 when unset.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var (
				opts csp.HashOpts
				err  error
			)
			if alg == "" {
				opts, err = csp.DefaultHashOpt()
			} else {
				opts, err = csp.GetHashOpt(alg)
			}
			if err != nil {
				return err
			}
			digest, err := s.provider.Hash([]byte(args[0]), opts)
			if err != nil {
				return errors.WithMessagef(err, "failed hashing with %s", opts.Algorithm())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(digest))
			return err
		},
	}
	cmd.Flags().StringVar(&alg, "alg", "", "Hash function, e.g. SHA256, SHA3_256 or SHA")
	return cmd
}

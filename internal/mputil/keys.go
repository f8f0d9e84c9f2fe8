/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mputil

import (
	"math/big"

	"github.com/hyperledger/fabric-mpcsp/csp/sw"
	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RSAKey is the YAML form of a generated RSA key.
type RSAKey struct {
	Bits int    `yaml:"bits"`
	N    string `yaml:"n"`
	E    string `yaml:"e"`
	D    string `yaml:"d"`
	P    string `yaml:"p"`
	Q    string `yaml:"q"`
	DP   string `yaml:"dp"`
	DQ   string `yaml:"dq"`
	QInv string `yaml:"qinv"`
}

// DLDomain is the YAML form of generated discrete-log domain parameters.
type DLDomain struct {
	P string `yaml:"p"`
	Q string `yaml:"q"`
	G string `yaml:"g"`
	R string `yaml:"r"`
}

func hexOf(x *big.Int) string {
	return new(mp.Number).SetBig(x).Hex()
}

func rsaGenCmd(s *session) *cobra.Command {
	var bits int
	cmd := &cobra.Command{
		Use:   "rsagen",
		Short: "Generate an RSA key and print its components.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			key, err := sw.GenerateRSAKey(s.rng, bits)
			if err != nil {
				return err
			}
			out := &RSAKey{
				Bits: key.N.BitLen(),
				N:    hexOf(key.N),
				E:    hexOf(big.NewInt(int64(key.E))),
				D:    hexOf(key.D),
				P:    hexOf(key.Primes[0]),
				Q:    hexOf(key.Primes[1]),
				DP:   hexOf(key.Precomputed.Dp),
				DQ:   hexOf(key.Precomputed.Dq),
				QInv: hexOf(key.Precomputed.Qinv),
			}
			return printYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 2048, "Modulus length in bits, a multiple of 64")
	return cmd
}

func dlGenCmd(s *session) *cobra.Command {
	var pBits, qBits int
	cmd := &cobra.Command{
		Use:   "dlgen",
		Short: "Generate discrete-log domain parameters P = Q*R + 1 with generator G.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if pBits%32 != 0 || qBits%32 != 0 {
				return errors.Errorf("invalid domain sizes [%d,%d]: must be multiples of 32", pBits, qBits)
			}
			d, err := sw.GenerateDLDomain(s.rng, pBits/32, qBits/32)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), &DLDomain{
				P: d.P.Hex(),
				Q: d.Q.Hex(),
				G: d.G.Hex(),
				R: d.R.Hex(),
			})
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&pBits, "pbits", 1024, "Length of P in bits, a multiple of 32")
	flags.IntVar(&qBits, "qbits", 160, "Length of Q in bits, a multiple of 32")
	return cmd
}

/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mputil

import (
	"fmt"

	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func powModCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "powmod <base> <exponent> <modulus>",
		Short: "Compute base^exponent mod modulus.",
		Long:  "Compute base^exponent mod modulus. Operands are hexadecimal; the base may be up to twice the modulus length.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			b, err := parseModulus(args[2])
			if err != nil {
				return err
			}
			defer b.Free()

			x, err := reduceOperand(b, "base", args[0])
			if err != nil {
				return err
			}
			e, err := mp.NumberFromHex(args[1])
			if err != nil {
				return errors.WithMessage(err, "invalid exponent")
			}

			z := mp.NewNumber(b.Size())
			b.PowMod(z.Words(), x.Words(), e.Words())
			logger.Debugf("powmod over a %d word modulus", b.Size())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), z.Hex())
			return err
		},
	}
}

func invCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "inv <x> <modulus>",
		Short: "Compute the inverse of x mod modulus.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			b, err := parseModulus(args[1])
			if err != nil {
				return err
			}
			defer b.Free()

			x, err := reduceOperand(b, "x", args[0])
			if err != nil {
				return err
			}

			z := mp.NewNumber(b.Size())
			if !b.Invert(z.Words(), x.Words()) {
				return errors.Errorf("%s is not invertible mod %s", args[0], mp.NewNumber(0).Set(b.Modulus()).Hex())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), z.Hex())
			return err
		},
	}
}

func parseModulus(s string) (*mp.Barrett, error) {
	b := &mp.Barrett{}
	if err := b.SetModulusHex(s); err != nil {
		return nil, errors.WithMessagef(err, "invalid modulus %s", s)
	}
	return b, nil
}

// reduceOperand parses a hexadecimal operand and reduces it mod the context's
// modulus.
func reduceOperand(b *mp.Barrett, name, s string) (*mp.Number, error) {
	n, err := mp.NumberFromHex(s)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid %s", name)
	}
	words := trimWords(n.Words())
	if len(words) > 2*b.Size() {
		return nil, errors.Errorf("%s is longer than twice the modulus (%d words)", name, 2*b.Size())
	}
	x := mp.NewNumber(b.Size())
	b.Reduce(x.Words(), words)
	return x, nil
}

func trimWords(w []mp.Word) []mp.Word {
	for len(w) > 0 && w[0] == 0 {
		w = w[1:]
	}
	return w
}

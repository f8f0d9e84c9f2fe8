/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mputil

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func primeCmd(s *session) *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "prime <n>",
		Short: "Test a hexadecimal number for probable primality.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			b := &mp.Barrett{}
			err := b.SetModulusHex(args[0])
			switch {
			case errors.Is(err, mp.ErrDegenerateModulus):
				// powers of the radix, 1 included, are never prime
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "composite")
				return err
			case err != nil:
				return errors.WithMessagef(err, "invalid number %s", args[0])
			}
			defer b.Free()

			if rounds <= 0 {
				rounds = mp.Trials(32 * b.Size())
			}
			ok, err := b.IsProbablePrime(s.rng, rounds)
			if err != nil {
				return errors.WithMessage(err, "primality test failed")
			}
			verdict := "composite"
			if ok {
				verdict = "probable prime"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), verdict)
			return err
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 0, "Miller-Rabin rounds (default depends on the size)")
	return cmd
}

func genPrimeCmd(s *session) *cobra.Command {
	var (
		bits     int
		rounds   int
		factor   string
		count    int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "genprime",
		Short: "Generate random probable primes.",
		Long:  "Generate random probable primes, one per line. With --count above one, primes are drawn concurrently, each worker from its own generator.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if bits <= 0 || bits%32 != 0 || bits > 32*mp.MaxWords {
				return errors.Errorf("invalid prime length %d: must be a positive multiple of 32 up to %d", bits, 32*mp.MaxWords)
			}
			if count < 1 || parallel < 1 {
				return errors.Errorf("invalid count %d or parallelism %d: must be positive", count, parallel)
			}
			if rounds <= 0 {
				rounds = mp.Trials(bits)
			}
			var f *mp.Number
			if factor != "" {
				var err error
				if f, err = mp.NumberFromHex(factor); err != nil {
					return errors.WithMessage(err, "invalid coprimality factor")
				}
			}

			primes, err := s.generatePrimes(cmd.Context(), bits/32, rounds, f, count, parallel)
			if err != nil {
				return err
			}
			for _, p := range primes {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&bits, "bits", 512, "Prime length in bits, a multiple of 32")
	flags.IntVar(&rounds, "rounds", 0, "Miller-Rabin rounds (default depends on the size)")
	flags.StringVar(&factor, "coprime", "", "Hexadecimal f such that gcd(p-1, f) = 1")
	flags.IntVar(&count, "count", 1, "Number of primes to generate")
	flags.IntVar(&parallel, "parallel", runtime.NumCPU(), "Maximum number of primes generated at once")
	return cmd
}

// generatePrimes draws count primes of the given word size. The first one
// comes from the session generator; generators are not safe for concurrent
// use, so every other prime gets a fresh one from the provider.
func (s *session) generatePrimes(ctx context.Context, words, rounds int, f *mp.Number, count, parallel int) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	primes := make([]string, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range primes {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := s.rng
			if i > 0 {
				var err error
				if rng, err = s.provider.GetRandom(nil); err != nil {
					return errors.WithMessage(err, "failed creating random generator")
				}
			}

			b, err := mp.RandomPrime(rng, words, rounds, f)
			if err != nil {
				return errors.WithMessage(err, "prime generation failed")
			}
			primes[i] = mp.NewNumber(0).Set(b.Modulus()).Hex()
			b.Free()
			logger.Debugf("Generated prime %d of %d", i+1, count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return primes, nil
}

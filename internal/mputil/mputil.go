/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mputil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperledger/fabric-mpcsp/common/flogging"
	"github.com/hyperledger/fabric-mpcsp/common/metrics/prometheus"
	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/csp/factory"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var logger = flogging.MustGetLogger("mputil")

// EnvPrefix prefixes the environment overrides of configuration keys, so
// that MPUTIL_LOGGING_SPEC overrides logging.spec.
const EnvPrefix = "MPUTIL"

// session carries what the root command sets up for its subcommands.
type session struct {
	v           *viper.Viper
	cfgFile     string
	metricsFile string
	registry    *prom.Registry
	provider    csp.CSP
	rng         csp.RandomGenerator
}

// Cmd returns the mputil root command with every subcommand attached.
func Cmd() *cobra.Command {
	s := &session{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "mputil",
		Short:         "Multiple-precision arithmetic and crypto provider utility.",
		Long:          "Primality tests, prime and key generation, modular arithmetic and hashing on top of the Barrett engine.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return s.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.writeMetrics()
		},
	}

	attachFlags(rootCmd.PersistentFlags(), s)

	rootCmd.AddCommand(
		primeCmd(s),
		genPrimeCmd(s),
		powModCmd(s),
		invCmd(s),
		rsaGenCmd(s),
		dlGenCmd(s),
		hashCmd(s),
	)
	return rootCmd
}

func attachFlags(flags *pflag.FlagSet, s *session) {
	flags.StringVar(&s.cfgFile, "config", "", "YAML configuration file")
	flags.StringVar(&s.metricsFile, "metrics-file", "", "Write provider metrics in the prometheus text format to this file")
	flags.String("logging-level", "", "Logging spec, e.g. info or csp.sw=debug:warning")
	flags.String("logging-format", "", "Log encoding: console, json or logfmt")
	flags.String("random", "", "Random generator: FIPS186, MT19937 or CHACHA20")
	flags.Int("security", 0, "Security level of the provider: 256 or 384")
	flags.String("hash-family", "", "Hash family of the provider: SHA2 or SHA3")
}

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = map[string]string{
	"logging-level":  "logging.spec",
	"logging-format": "logging.format",
	"random":         "random",
	"security":       "security",
	"hash-family":    "hashfamily",
}

func (s *session) init(cmd *cobra.Command) error {
	v := s.v
	flags := cmd.Flags()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "failed binding flag %s", name)
			}
		}
	}

	if s.cfgFile != "" {
		v.SetConfigFile(s.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed reading configuration file %s", s.cfgFile)
		}
	}

	err := flogging.Global.Apply(flogging.Config{
		Format:  v.GetString("logging.format"),
		LogSpec: v.GetString("logging.spec"),
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return errors.WithMessage(err, "failed configuring logging")
	}

	opts, err := factory.LoadOpts(v, "mpcsp")
	if err != nil {
		return err
	}
	if v.IsSet("random") {
		opts.SwOpts.Random = v.GetString("random")
	}
	if v.IsSet("security") {
		opts.SwOpts.SecLevel = v.GetInt("security")
	}
	if v.IsSet("hashfamily") {
		opts.SwOpts.HashFamily = v.GetString("hashfamily")
	}

	s.registry = prom.NewRegistry()
	opts.MetricsProvider = &prometheus.Provider{Registerer: s.registry}

	s.provider, err = factory.GetCSPFromOpts(opts)
	if err != nil {
		return err
	}
	s.rng, err = s.provider.GetRandom(nil)
	if err != nil {
		return errors.WithMessage(err, "failed creating random generator")
	}
	logger.Debugf("Using %s provider at security level %d (%s)", opts.ProviderName, opts.SwOpts.SecLevel, opts.SwOpts.HashFamily)
	return nil
}

func (s *session) writeMetrics() error {
	if s.metricsFile == "" || s.registry == nil {
		return nil
	}
	families, err := s.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "failed gathering metrics")
	}

	f, err := os.Create(s.metricsFile)
	if err != nil {
		return errors.Wrap(err, "failed creating metrics file")
	}
	defer f.Close()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return errors.Wrapf(err, "failed writing metric %s", mf.GetName())
		}
	}
	logger.Debugf("Wrote %d metric families to %s", len(families), s.metricsFile)
	return nil
}

// printYAML writes v to w as a YAML document.
func printYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed encoding output")
	}
	_, err = fmt.Fprint(w, string(out))
	return err
}

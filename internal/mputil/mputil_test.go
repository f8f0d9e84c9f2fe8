/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mputil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperledger/fabric-mpcsp/common/flogging"
	"github.com/hyperledger/fabric-mpcsp/csp/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(flogging.Reset)

	cmd := Cmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPowMod(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "small", args: []string{"3", "5", "7"}, expected: "5"},
		{name: "base above modulus", args: []string{"a", "2", "7"}, expected: "2"},
		{name: "zero exponent", args: []string{"1234", "0", "7"}, expected: "1"},
		{name: "fermat", args: []string{"2", "7ffffffffffffffffffffffffffffffe", "7fffffffffffffffffffffffffffffff"}, expected: "1"},
		{name: "prefixed", args: []string{"0x2", "0x20", "0x100000001"}, expected: "100000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"powmod"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}
}

func TestPowModAgainstBig(t *testing.T) {
	m := "c90fdaa22168c234c4c6628b80dc1cd129024e088a67cc74020bbea63b139b22514a08798e3404dd"
	x := "123456789abcdef0fedcba9876543210"
	e := "10001"
	out, err := run(t, "powmod", x, e, m)
	require.NoError(t, err)

	bm, _ := new(big.Int).SetString(m, 16)
	bx, _ := new(big.Int).SetString(x, 16)
	be, _ := new(big.Int).SetString(e, 16)
	assert.Equal(t, new(big.Int).Exp(bx, be, bm).Text(16), strings.TrimSpace(out))
}

func TestPowModErrors(t *testing.T) {
	_, err := run(t, "powmod", "3", "5", "1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid modulus 1")

	_, err = run(t, "powmod", "3", "5", "0")
	assert.Error(t, err)

	_, err = run(t, "powmod", "1000000000000000000000000", "5", "7")
	assert.EqualError(t, err, "base is longer than twice the modulus (2 words)")

	_, err = run(t, "powmod", "xyz", "5", "7")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base")

	_, err = run(t, "powmod", "3", "5")
	assert.Error(t, err)
}

func TestInv(t *testing.T) {
	out, err := run(t, "inv", "3", "7")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	// even modulus
	out, err = run(t, "inv", "3", "10")
	require.NoError(t, err)
	assert.Equal(t, "b\n", out)

	_, err = run(t, "inv", "2", "4")
	assert.EqualError(t, err, "2 is not invertible mod 4")

	_, err = run(t, "inv", "e", "7")
	assert.EqualError(t, err, "e is not invertible mod 7")
}

func TestPrime(t *testing.T) {
	tests := []struct {
		n        string
		expected string
	}{
		{n: "1f", expected: "probable prime"},
		{n: "7", expected: "composite"},
		{n: "9", expected: "composite"},
		{n: "1", expected: "composite"},
		{n: "231", expected: "composite"},
		{n: "7fffffffffffffffffffffffffffffff", expected: "probable prime"},
		{n: "fffffffdfffffff80000001", expected: "composite"},
	}

	for _, tt := range tests {
		t.Run(tt.n, func(t *testing.T) {
			out, err := run(t, "prime", tt.n, "--rounds", "10")
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}

	_, err := run(t, "prime", "0")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number 0")
}

func TestGenPrime(t *testing.T) {
	out, err := run(t, "genprime", "--bits", "128")
	require.NoError(t, err)

	p, ok := new(big.Int).SetString(strings.TrimSpace(out), 16)
	require.True(t, ok)
	assert.Equal(t, 128, p.BitLen())
	assert.True(t, p.ProbablyPrime(20))

	out, err = run(t, "genprime", "--bits", "64", "--coprime", "3")
	require.NoError(t, err)
	p, ok = new(big.Int).SetString(strings.TrimSpace(out), 16)
	require.True(t, ok)
	assert.NotEqual(t, int64(1), new(big.Int).Mod(p, big.NewInt(3)).Int64())

	_, err = run(t, "genprime", "--bits", "100")
	assert.EqualError(t, err, "invalid prime length 100: must be a positive multiple of 32 up to 131072")
}

func TestGenPrimeBatch(t *testing.T) {
	out, err := run(t, "genprime", "--bits", "64", "--count", "4", "--parallel", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	seen := map[string]bool{}
	for _, l := range lines {
		p, ok := new(big.Int).SetString(l, 16)
		require.True(t, ok, l)
		assert.Equal(t, 64, p.BitLen())
		assert.True(t, p.ProbablyPrime(20))
		seen[l] = true
	}
	assert.Len(t, seen, 4)

	_, err = run(t, "genprime", "--count", "0", "--parallel", "1")
	assert.EqualError(t, err, "invalid count 0 or parallelism 1: must be positive")
}

func TestRSAGen(t *testing.T) {
	out, err := run(t, "rsagen", "--bits", "512", "--random", "CHACHA20")
	require.NoError(t, err)

	var key RSAKey
	require.NoError(t, yaml.Unmarshal([]byte(out), &key))
	assert.Equal(t, 512, key.Bits)
	assert.Equal(t, "10001", key.E)

	parse := func(s string) *big.Int {
		x, ok := new(big.Int).SetString(s, 16)
		require.True(t, ok, s)
		return x
	}
	n, p, q := parse(key.N), parse(key.P), parse(key.Q)
	assert.Equal(t, 0, new(big.Int).Mul(p, q).Cmp(n))
	assert.Equal(t, 1, p.Cmp(q))

	pm := new(big.Int).Sub(p, big.NewInt(1))
	assert.Equal(t, 0, new(big.Int).Mod(parse(key.D), pm).Cmp(parse(key.DP)))
	qinv := new(big.Int).Mul(q, parse(key.QInv))
	assert.Equal(t, int64(1), qinv.Mod(qinv, p).Int64())

	_, err = run(t, "rsagen", "--bits", "500")
	assert.Error(t, err)
}

func TestDLGen(t *testing.T) {
	out, err := run(t, "dlgen", "--pbits", "256", "--qbits", "96")
	require.NoError(t, err)

	var d DLDomain
	require.NoError(t, yaml.Unmarshal([]byte(out), &d))
	p, _ := new(big.Int).SetString(d.P, 16)
	q, _ := new(big.Int).SetString(d.Q, 16)
	g, _ := new(big.Int).SetString(d.G, 16)
	r, _ := new(big.Int).SetString(d.R, 16)

	qr := new(big.Int).Mul(q, r)
	assert.Equal(t, 0, qr.Add(qr, big.NewInt(1)).Cmp(p))
	assert.Equal(t, int64(1), new(big.Int).Exp(g, q, p).Int64())

	_, err = run(t, "dlgen", "--pbits", "100")
	assert.EqualError(t, err, "invalid domain sizes [100,160]: must be multiples of 32")

	_, err = run(t, "dlgen", "--pbits", "96", "--qbits", "96")
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	t.Setenv("MPCSP_HASH", "")

	abc := sha256.Sum256([]byte("abc"))
	out, err := run(t, "hash", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(abc[:])+"\n", out)

	s3 := sha3.Sum256([]byte("abc"))
	out, err = run(t, "hash", "--alg", "SHA3_256", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(s3[:])+"\n", out)

	t.Setenv("MPCSP_HASH", "SHA3_256")
	out, err = run(t, "hash", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(s3[:])+"\n", out)

	_, err = run(t, "hash", "--alg", "MD5", "abc")
	assert.EqualError(t, err, "hash function not recognized [MD5]")
}

func TestProviderFlags(t *testing.T) {
	s3 := sha3.Sum256([]byte("abc"))
	out, err := run(t, "hash", "--hash-family", "SHA3", "--alg", "SHA", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(s3[:])+"\n", out)

	_, err = run(t, "hash", "--random", "RC4", "abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "random generator not recognized [RC4]")

	_, err = run(t, "hash", "--security", "128", "abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Could not initialize CSP SW")

	_, err = run(t, "hash", "--logging-format", "xml", "abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported log format 'xml'")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MPUTIL_HASHFAMILY", "SHA3")
	t.Setenv("MPUTIL_SECURITY", "384")

	s3 := sha3.Sum384([]byte("abc"))
	out, err := run(t, "hash", "--alg", "SHA", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(s3[:])+"\n", out)
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "mputil.yaml")
	err := os.WriteFile(cfg, []byte(`
logging:
    spec: mputil=debug:warning
    format: json
mpcsp:
    Default: SW
    SW:
        Hash: SHA3
        Security: 384
        Random: MT19937
`), 0o644)
	require.NoError(t, err)

	s3 := sha3.Sum384([]byte("abc"))
	out, err := run(t, "--config", cfg, "hash", "--alg", "SHA", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(s3[:])+"\n", out)

	// flags take precedence over the file
	s256 := sha3.Sum256([]byte("abc"))
	out, err = run(t, "--config", cfg, "--security", "256", "hash", "--alg", "SHA", "abc")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(s256[:])+"\n", out)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "hash", "abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed reading configuration file")
}

func TestMetricsFile(t *testing.T) {
	t.Setenv("MPCSP_HASH", "")
	path := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := run(t, "--metrics-file", path, "hash", "abc")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# TYPE mpcsp_sw_operations counter")
	assert.Contains(t, string(raw), `mpcsp_sw_operations{algorithm="SHA256",operation="hash",success="true"} 1`)

	_, err = run(t, "--metrics-file", filepath.Join(t.TempDir(), "missing", "metrics.prom"), "hash", "abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed creating metrics file")
}

func TestHashWithProvider(t *testing.T) {
	s := &session{provider: &mocks.MockCSP{HashVal: []byte{0xde, 0xad}}}
	cmd := hashCmd(s)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--alg", "SHA256", "abc"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "dead\n", out.String())

	s.provider = &mocks.MockCSP{HashErr: errors.New("provider offline")}
	cmd = hashCmd(s)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--alg", "SHA256", "abc"})
	assert.EqualError(t, cmd.Execute(), "failed hashing with SHA256: provider offline")
}

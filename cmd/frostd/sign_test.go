package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSignDealer(t *testing.T) {
	out, err := execute(t, "sign", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "group key: ")
	assert.Contains(t, out, "signature: ")
}

func TestSignDKG(t *testing.T) {
	out, err := execute(t, "sign", "--mode", "dkg", "--group", "secp256k1", "--hasher", "blake3", "--log-level", "error")
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasPrefix(line, "group key: ") {
			// Compressed secp256k1 point.
			assert.Len(t, strings.TrimPrefix(line, "group key: "), 66)
		}
	}
}

func TestSignRejectsBadInput(t *testing.T) {
	_, err := execute(t, "sign", "--mode", "magic", "--log-level", "error")
	assert.ErrorContains(t, err, "unknown mode")

	_, err = execute(t, "sign", "--min", "0", "--log-level", "error")
	assert.Error(t, err)

	_, err = execute(t, "sign", "--group", "ed448", "--log-level", "error")
	assert.Error(t, err)
}

func TestConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frostd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: dkg\nmax: 3\nmin: 1\nlog-level: error\n"), 0o600))

	out, err := execute(t, "sign", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "signature: ")

	t.Setenv("FROSTD_MODE", "bogus")
	_, err = execute(t, "sign", "--config", path)
	assert.ErrorContains(t, err, "unknown mode")
}

func TestSignRejectsOutOfRangeThreshold(t *testing.T) {
	// 65539 would wrap to 3.
	t.Setenv("FROSTD_MIN", "65539")
	_, err := execute(t, "sign", "--log-level", "error")
	assert.ErrorContains(t, err, "min: 65539 out of range")

	path := filepath.Join(t.TempDir(), "frostd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max: 70000\nmin: 3\nlog-level: error\n"), 0o600))
	t.Setenv("FROSTD_MIN", "3")
	_, err = execute(t, "sign", "--config", path)
	assert.ErrorContains(t, err, "max: 70000 out of range")
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruelucas/booking-service/pkg/codegen"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	for _, sub := range []string{"serve", "migrate", "gen-code"} {
		require.Contains(t, out, sub)
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	envFlag := root.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFlag)
	require.Equal(t, ".env", envFlag.DefValue)
}

func TestGenCode(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	out, err := executeCommand("gen-code", "--count", "3", "--prefix", "RX", "--env-file", missing)
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for _, code := range lines {
		require.True(t, codegen.Valid("RX", code), code)
	}
}

func TestGenCodeRejectsBadCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero", []string{"gen-code", "--count", "0"}},
		{"too many", []string{"gen-code", "--count", "1001"}},
		{"extra arg", []string{"gen-code", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(append(tt.args, "--env-file", "")...)
			require.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	require.NoError(t, loadEnv(""))
	require.NoError(t, loadEnv(filepath.Join(t.TempDir(), "nope.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RENTAL_CLI_TEST_KEY=from-file\n"), 0o600))
	t.Setenv("RENTAL_CLI_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("RENTAL_CLI_TEST_KEY"))
	require.NoError(t, loadEnv(path))
	require.Equal(t, "from-file", os.Getenv("RENTAL_CLI_TEST_KEY"))

	bad := filepath.Join(t.TempDir(), "dir.env")
	require.NoError(t, os.Mkdir(bad, 0o700))
	require.Error(t, loadEnv(bad))
}

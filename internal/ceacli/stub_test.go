package ceacli

import (
	"os"
	"path/filepath"
	"testing"
)

// stubCLI writes a shell script standing in for `python -u -m cea.cli`.
// The script body sees the positional arguments with the leading
// "-u -m cea.cli" and any "--scenario <path>" already consumed: $1 is the
// subcommand, CEA_SCENARIO holds the scenario (possibly empty).
func stubCLI(t *testing.T, body string) Interpreter {
	t.Helper()
	script := `#!/bin/sh
shift 3
CEA_SCENARIO=""
if [ "$1" = "--scenario" ]; then
  CEA_SCENARIO="$2"
  shift 2
fi
` + body + "\n"

	path := filepath.Join(t.TempDir(), "python")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return Interpreter{Python: path}
}

func stubClient(t *testing.T, body string) *Client {
	t.Helper()
	client, err := NewClient(stubCLI(t, body), nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

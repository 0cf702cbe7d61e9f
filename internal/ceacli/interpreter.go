// Package ceacli bridges to the external City Energy Analyst command line
// (`python -m cea.cli`). It discovers the interpreter that CEA was
// installed with, runs subcommands as child processes, and exposes the
// read-only query helpers the adapters need.
package ceacli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotConfigured reports that no CEA interpreter is configured. Callers
// must receive this before any process is spawned.
var ErrNotConfigured = errors.New("cea interpreter not configured")

// InterpreterFileName is the discovery file written by the CEA installer
// into the user's home directory. It contains a single line: the absolute
// path of the python interpreter CEA runs under.
const InterpreterFileName = "cea_python.pth"

// Interpreter identifies the python executable used to reach the CEA CLI.
type Interpreter struct {
	Python string
}

// Discover resolves the interpreter. An explicitly configured path wins;
// otherwise the home-directory discovery file is consulted. A missing or
// empty discovery file yields ErrNotConfigured.
func Discover(explicit string) (Interpreter, error) {
	if strings.TrimSpace(explicit) != "" {
		return Interpreter{Python: strings.TrimSpace(explicit)}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Interpreter{}, fmt.Errorf("resolving home directory: %w", ErrNotConfigured)
	}
	return FromFile(filepath.Join(home, InterpreterFileName))
}

// FromFile reads an interpreter discovery file.
func FromFile(path string) (Interpreter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Interpreter{}, fmt.Errorf("reading %s: %w", path, ErrNotConfigured)
	}
	python := strings.TrimSpace(string(b))
	if python == "" {
		return Interpreter{}, fmt.Errorf("%s is empty: %w", path, ErrNotConfigured)
	}
	return Interpreter{Python: python}, nil
}

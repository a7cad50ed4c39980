//go:build mage

// Package main contains Mage build targets for brainboard.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "brainboard"
	cmdPkg  = "./cmd/brainboard"
)

// Default is the target run by a bare "mage".
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return err
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// BuildNoCGO compiles the binary without the ONNX runtime.
func BuildNoCGO() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	env := map[string]string{"CGO_ENABLED": "0"}
	return sh.RunWithV(env, "go", "build", "-o", filepath.Join(binDir, binName+"-nocgo"), cmdPkg)
}

// Test runs unit, e2e and integration tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Bench runs the benchmarks under test/benchmark.
func Bench() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "-benchmem", "./test/benchmark/...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs lint then tests.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

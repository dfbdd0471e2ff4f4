package magetasks

import (
	"github.com/magefile/mage/sh"
)

// TestAll runs all tests.
func TestAll() error {
	PrintH2Header("Tests")
	if err := Run("go test", "go", "test", "./..."); err != nil {
		return err
	}
	PrintSuccess("All tests passed")
	return nil
}

// TestRace runs tests with the race detector. The optimistic coordinator and
// the fake backend are the packages it matters for.
func TestRace() error {
	PrintH2Header("Race Detector")
	if err := Run("go test -race", "go", "test", "-race", "./..."); err != nil {
		PrintError("Race detector found issues")
		return err
	}
	PrintSuccess("No race conditions detected")
	return nil
}

// TestCoverage runs tests with coverage and prints the per-function report.
func TestCoverage() error {
	PrintH2Header("Test Coverage")
	if err := Run("go test -cover", "go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	// The per-function table is informational.
	_ = sh.RunV("go", "tool", "cover", "-func=coverage.out")
	PrintSuccess("Coverage written to coverage.out")
	return nil
}

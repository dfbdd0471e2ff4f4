package magetasks

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// LDFlags returns the linker flags that stamp internal/version.
func LDFlags(version, commit, date string) string {
	pkg := ModulePath + "/internal/version"
	return fmt.Sprintf("-s -w -X '%[1]s.Version=%[2]s' -X '%[1]s.CommitHash=%[3]s' -X '%[1]s.BuildDate=%[4]s'",
		pkg, version, commit, date)
}

// BuildAll builds the apptrack binary into BinPath.
func BuildAll() error {
	PrintH2Header("Build")

	ldflags := LDFlags(gitVersion(), gitCommit(), time.Now().UTC().Format(time.RFC3339))
	env := map[string]string{"CGO_ENABLED": "0"}
	if err := sh.RunWithV(env, "go", "build", "-trimpath", "-ldflags", ldflags, "-o", BinPath, MainPackage); err != nil {
		PrintError("Build failed")
		return err
	}

	PrintSuccess(fmt.Sprintf("Built: %s", BinPath))
	return nil
}

// Clean removes build and coverage artifacts.
func Clean() error {
	PrintH2Header("Clean")

	for _, p := range []string{"bin", "coverage.out"} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	if err := sh.Run("go", "clean", "-testcache"); err != nil {
		return err
	}

	PrintSuccess("Cleaned build artifacts")
	return nil
}

func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil || strings.TrimSpace(out) == "" {
		return "dev"
	}
	return strings.TrimSpace(out)
}

func gitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || strings.TrimSpace(out) == "" {
		return "unknown"
	}
	return strings.TrimSpace(out)
}

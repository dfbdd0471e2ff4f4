// Package magetasks implements the targets in the repository's magefile:
// building the apptrack binary with version ldflags, running tests, and
// linting. Targets shell out through github.com/magefile/mage/sh so command
// lines are echoed when mage runs with -v.
package magetasks

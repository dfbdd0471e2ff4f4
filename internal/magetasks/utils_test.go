package magetasks

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommandNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"exec.ErrNotFound", exec.ErrNotFound, true},
		{"wrapped exec.ErrNotFound", fmt.Errorf("running gofmt: %w", exec.ErrNotFound), true},
		{"executable file not found", errors.New(`exec: "golangci-lint": executable file not found in $PATH`), true},
		{"no such file or directory", errors.New("fork/exec /x: no such file or directory"), true},
		{"other error", errors.New("exit status 1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCommandNotFound(tt.err))
		})
	}
}

func TestUnformatted_SkipsBlankAndUnderscoreDirs(t *testing.T) {
	out := "pkg/view/list.go\n\n_scratch/x.go\ncmd/apptrack/main.go\n"

	assert.Equal(t, []string{"pkg/view/list.go", "cmd/apptrack/main.go"}, unformatted(out))
	assert.Empty(t, unformatted(""))
}

func TestPrintHelpers_WriteToOut(t *testing.T) {
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })

	PrintH1Header("Release")
	PrintH2Header("Build")
	PrintSuccess("built")
	PrintWarning("skipped")
	PrintError("broke")
	PrintInfo("note")

	got := buf.String()
	for _, want := range []string{"Release", "=== Build ===", "built", "skipped", "broke", "note"} {
		assert.Contains(t, got, want)
	}
}

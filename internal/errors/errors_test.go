package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestMark_KeepsMessage_When_MarkedWithSentinel(t *testing.T) {
	err := Mark(New("application 42 is gone"), ErrNotFound)

	assert.Equal(t, "application 42 is gone", err.Error())
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrServer))
}

func TestMark_SurvivesWrapping_When_ContextAdded(t *testing.T) {
	err := Wrap(Mark(New("boom"), ErrServer), "patch status")

	assert.True(t, Is(err, ErrServer))
	assert.Equal(t, "server", Kind(err))
}

func TestKind_NamesBucket_When_ErrorMarked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", New("x"), ""},
		{"validation", Validationf("company is required"), "validation"},
		{"not found", NotFoundf("app %s", "a1"), "not_found"},
		{"unauthorized", Mark(New("401"), ErrUnauthorized), "unauthorized"},
		{"network", Mark(New("dial"), ErrNetwork), "network"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "set APPTRACK_TOKEN")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "set APPTRACK_TOKEN", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	baseErr := New("connection refused")
	err := Wrap(baseErr, "list applications")
	fmt.Println(err)
	// Output: list applications: connection refused
}

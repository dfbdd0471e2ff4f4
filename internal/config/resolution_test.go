package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/apptrack/internal/errors"
)

func TestMergeWithFlags_PriorityOrder(t *testing.T) {
	tests := []struct {
		name           string
		fileCfg        func(*AppConfig)
		envVars        map[string]string
		flags          CliFlags
		wantAPIURL     string
		wantURLSource  string
		wantPageSize   int
		wantSizeSource string
	}{
		{
			name:           "defaults",
			wantAPIURL:     DefaultAPIURL,
			wantURLSource:  "default",
			wantPageSize:   DefaultPageSize,
			wantSizeSource: "default",
		},
		{
			name: "file overrides defaults",
			fileCfg: func(c *AppConfig) {
				c.APIURL = "http://file:1"
				c.PageSize = 30
				c.Path = FileName
			},
			wantAPIURL:     "http://file:1",
			wantURLSource:  "file",
			wantPageSize:   30,
			wantSizeSource: "file",
		},
		{
			name: "env overrides file",
			fileCfg: func(c *AppConfig) {
				c.APIURL = "http://file:1"
				c.Path = FileName
			},
			envVars:        map[string]string{"APPTRACK_API_URL": "http://env:2", "APPTRACK_PAGE_SIZE": "7"},
			wantAPIURL:     "http://env:2",
			wantURLSource:  "env",
			wantPageSize:   7,
			wantSizeSource: "env",
		},
		{
			name:           "cli overrides env",
			envVars:        map[string]string{"APPTRACK_API_URL": "http://env:2", "APPTRACK_PAGE_SIZE": "7"},
			flags:          CliFlags{APIURL: "http://cli:3", PageSize: 4},
			wantAPIURL:     "http://cli:3",
			wantURLSource:  "cli",
			wantPageSize:   4,
			wantSizeSource: "cli",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			appCfg := Defaults()
			if tt.fileCfg != nil {
				tt.fileCfg(appCfg)
			}

			got, err := MergeWithFlags(appCfg, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAPIURL, got.APIURL)
			assert.Equal(t, tt.wantURLSource, got.APIURLSource)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
			assert.Equal(t, tt.wantSizeSource, got.PageSizeSource)
		})
	}
}

func TestMergeWithFlags_ShowArchivedNil_When_NoSourceSetsIt(t *testing.T) {
	isolate(t)

	got, err := MergeWithFlags(Defaults(), CliFlags{})
	require.NoError(t, err)
	assert.Nil(t, got.ShowArchived)

	t.Setenv("APPTRACK_SHOW_ARCHIVED", "true")
	got, err = MergeWithFlags(Defaults(), CliFlags{})
	require.NoError(t, err)
	require.NotNil(t, got.ShowArchived)
	assert.True(t, *got.ShowArchived)

	got, err = MergeWithFlags(Defaults(), CliFlags{ShowArchived: false, ShowArchivedSet: true})
	require.NoError(t, err)
	require.NotNil(t, got.ShowArchived)
	assert.False(t, *got.ShowArchived)
}

func TestMergeWithFlags_NoColorFromEnv_When_FlagUnset(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "1")

	got, err := MergeWithFlags(Defaults(), CliFlags{})
	require.NoError(t, err)
	assert.True(t, got.NoColor)

	got, err = MergeWithFlags(Defaults(), CliFlags{NoColor: false, NoColorSet: true})
	require.NoError(t, err)
	assert.False(t, got.NoColor)
}

func TestMergeWithFlags_Validation(t *testing.T) {
	isolate(t)

	cases := map[string]func(*AppConfig){
		"relative url":    func(c *AppConfig) { c.APIURL = "localhost:8080" },
		"zero page size":  func(c *AppConfig) { c.PageSize = -1 },
		"zero window":     func(c *AppConfig) { c.BoardWindow = -2 },
		"zero timeout":    func(c *AppConfig) { c.Timeout = 0 },
		"negative limits": func(c *AppConfig) { c.RateLimit = -1 },
	}
	for name, mutate := range cases {
		appCfg := Defaults()
		mutate(appCfg)
		_, err := MergeWithFlags(appCfg, CliFlags{})
		assert.ErrorIs(t, err, errors.ErrValidation, name)
	}

	t.Setenv("APPTRACK_PAGE_SIZE", "twelve")
	_, err := MergeWithFlags(Defaults(), CliFlags{})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestResolve_ReadsLocalFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(FileName, []byte("token: abc\n"), 0o600))

	got, err := Resolve(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Token)
	assert.Equal(t, "file", got.TokenSource)
	assert.Equal(t, FileName, got.ConfigPath)
}

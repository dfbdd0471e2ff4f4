// Package config handles configuration loading and merging for apptrack.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--api-url, --token, --page-size, --theme, --no-color, ...)
//  2. Environment variables (APPTRACK_*, NO_COLOR), including any loaded from .env
//  3. YAML config file (.apptrack.yaml in local directory or ~/.config/apptrack/.apptrack.yaml)
//  4. Hardcoded defaults
//
// A .env file in the working directory is loaded before the environment is
// read. Variables already present in the process environment win over .env.
//
// # Environment Variables
//
//   - APPTRACK_API_URL: server root, "/api" is appended by the client
//   - APPTRACK_TOKEN: bearer token
//   - APPTRACK_PAGE_SIZE: list page size
//   - APPTRACK_SHOW_ARCHIVED: "true" or "false", overrides the account preference
//   - APPTRACK_THEME: theme name
//   - APPTRACK_DEBUG: "true" or "1" enables debug logging
//   - NO_COLOR: disables colors
package config

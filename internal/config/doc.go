// Package config loads and validates application settings from an
// optional config.yaml and LETTERMILL_-prefixed environment variables.
// The Config struct groups settings by concern (server, database, auth,
// scheduler, email) and is validated as a whole at startup so a
// misconfigured process fails before serving.
package config

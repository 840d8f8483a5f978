// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, a .env file and ONELINE_
// environment variables. The resulting Config is validated once at startup
// and passed by value to the components that need it.
package config

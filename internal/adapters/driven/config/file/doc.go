// Package file loads the TOML configuration describing the configured
// bibliography sources, the write-back target and the ambient settings.
package file

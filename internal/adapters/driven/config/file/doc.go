// Package file implements driven.ConfigStore on a TOML file under the
// user's config directory, with CORPORA_* environment overrides taking
// precedence over persisted values.
package file

package coregex

import "github.com/coregx/coregex/matcher"

// Config re-exports the matcher's tunables at the package boundary
// callers actually compile against.
type Config = matcher.Config

// DefaultConfig returns the tunables Compile uses when no explicit
// Config is given.
func DefaultConfig() Config {
	return matcher.DefaultConfig()
}

// Package envmode resolves the pipeline execution mode.
//
// Development (the default) allows CMS fetches and regenerates the asset
// cache; production and preview are cache-only: fetchers serve strictly
// from the manifests already on disk and never touch the network.
package envmode

import "os"

// Mode is the pipeline execution mode.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
	Preview     Mode = "preview"
)

// EnvVar is the environment variable consulted by FromEnv.
const EnvVar = "APP_MODE"

// Parse maps a configuration value to a Mode. Unset or unrecognized
// values resolve to Development.
func Parse(s string) Mode {
	switch Mode(s) {
	case Development, Production, Preview:
		return Mode(s)
	default:
		return Development
	}
}

// FromEnv resolves the mode from the APP_MODE environment variable.
func FromEnv() Mode {
	return Parse(os.Getenv(EnvVar))
}

// Resolve picks the first non-empty value from candidates and parses it.
// With no candidates set it falls back to FromEnv.
func Resolve(candidates ...string) Mode {
	for _, c := range candidates {
		if c != "" {
			return Parse(c)
		}
	}
	return FromEnv()
}

// CacheOnly reports whether fetchers must serve from cached manifests
// without issuing network calls.
func (m Mode) CacheOnly() bool {
	return m == Production || m == Preview
}

func (m Mode) String() string {
	return string(m)
}

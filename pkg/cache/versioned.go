package cache

import "strings"

// Versioned returns a Keyer whose keys carry the engine version, so results
// computed by one release are never served by another. Development builds
// share the "dev" namespace. A nil inner keyer means the default.
func Versioned(inner Keyer, version string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		version = "dev"
	}
	return versionedKeyer{inner: inner, ns: "v" + version + "/"}
}

type versionedKeyer struct {
	inner Keyer
	ns    string
}

func (k versionedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.ns + k.inner.LayoutKey(graphHash, opts)
}

func (k versionedKeyer) SimulationKey(graphHash string, opts SimulationKeyOpts) string {
	return k.ns + k.inner.SimulationKey(graphHash, opts)
}

package deploy

import (
	"maps"
	"slices"
)

// RuntimeEnvNames are forwarded from the local environment into the
// deployed runtime. GOOGLE_CLOUD_PROJECT and GOOGLE_CLOUD_LOCATION are set
// by the runtime itself and must not be listed here.
var RuntimeEnvNames = []string{
	"ROOT_AGENT_MODEL",
	"ANALYTICS_AGENT_MODEL",
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// RuntimeEnv collects RuntimeEnvNames. Unset or empty variables are omitted
// so the runtime falls back to its own defaults.
func RuntimeEnv(lookup LookupFunc) map[string]string {
	env := make(map[string]string, len(RuntimeEnvNames))
	for _, name := range RuntimeEnvNames {
		if v, ok := lookup(name); ok && v != "" {
			env[name] = v
		}
	}
	return env
}

// SortedEnvNames returns env keys in stable order for API payloads.
func SortedEnvNames(env map[string]string) []string {
	return slices.Sorted(maps.Keys(env))
}

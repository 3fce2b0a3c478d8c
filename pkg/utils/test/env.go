// Package test holds helpers for tests that talk to real cloud services.
// Such tests are skipped unless their TEST_* variables are set.
package test

import (
	"fmt"
	"os"
	"testing"
)

type EnvVars struct {
	vars map[string]string
}

func NewEnvVars(t *testing.T, keys ...string) EnvVars {
	t.Helper()
	e := EnvVars{vars: map[string]string{}}

	for _, key := range keys {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			t.Skipf("skipping test because %s is not set", key)
		}
		e.vars[key] = value
	}

	return e
}

func (e EnvVars) Get(key string) string {
	if v, ok := e.vars[key]; ok {
		return v
	}
	panic(fmt.Sprintf("env var %s was not requested in NewEnvVars", key))
}

// CloudVars returns the project and location shared by live tests.
func CloudVars(t *testing.T) (projectID, location string) {
	t.Helper()
	vars := NewEnvVars(t, "TEST_GOOGLE_CLOUD_PROJECT", "TEST_GOOGLE_CLOUD_LOCATION")
	return vars.Get("TEST_GOOGLE_CLOUD_PROJECT"), vars.Get("TEST_GOOGLE_CLOUD_LOCATION")
}

// SPDX-License-Identifier: MPL-2.0

// Package testutil provides small helpers that keep environment mutation in
// tests consistent and restorable.
package testutil

import (
	"os"
	"testing"
)

// MustSetenv sets the environment variable key to value and returns a
// cleanup function restoring the previous state. The test fails
// immediately if the variable cannot be set.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	previous, existed := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setting env %s: %v", key, err)
	}
	return func() {
		restoreEnv(t, key, previous, existed)
	}
}

// MustUnsetenv removes the environment variable key and returns a cleanup
// function restoring the previous state. The test fails immediately if the
// variable cannot be unset.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	previous, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetting env %s: %v", key, err)
	}
	return func() {
		restoreEnv(t, key, previous, existed)
	}
}

func restoreEnv(t testing.TB, key, value string, existed bool) {
	t.Helper()
	var err error
	if existed {
		err = os.Setenv(key, value)
	} else {
		err = os.Unsetenv(key)
	}
	if err != nil {
		t.Errorf("restoring env %s: %v", key, err)
	}
}

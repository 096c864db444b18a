//go:build !android

package platform

import "testing"

func TestStorageDefaults(t *testing.T) {
	if err := EnsureStorageDir(); err != nil {
		t.Errorf("EnsureStorageDir() = %v, want nil", err)
	}
	if StoragePath() != "" {
		t.Errorf("StoragePath() = %q, want empty", StoragePath())
	}
}

package main

import (
	"os"
	"testing"

	"httpdctl/cmd"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func TestVersion(t *testing.T) {
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}

	testVersion := "1.2.3"
	version = testVersion
	if version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, version)
	}

	version = "dev"
}

func TestSetVersionWiring(t *testing.T) {
	cmd.SetVersion(version)
	if cmd.GetVersion() != version {
		t.Errorf("Expected injected version %q, got %q", version, cmd.GetVersion())
	}
}

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"httpdctl/internal/apache"
	"httpdctl/internal/installer"
	"httpdctl/internal/systemd"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "httpdctl" {
		t.Errorf("Expected Use to be 'httpdctl', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}

	// Same template as Execute() installs.
	testCmd.SetVersionTemplate(`{{printf "httpdctl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	testCmd.SetArgs([]string{"--version"})
	err := testCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	output := buf.String()
	expected := "httpdctl version 1.0.0\n"
	if output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	expectedCommands := []string{"version", "serve", "status", "install", "start", "stop"}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "module enable failure",
			err:  &apache.ModuleEnableError{Module: "ssl"},
			want: ExitCodeApacheFailed,
		},
		{
			name: "module disable failure",
			err:  &apache.ModuleDisableError{Module: "ssl", Reason: "module ssl was not found"},
			want: ExitCodeApacheFailed,
		},
		{
			name: "site enable failure",
			err:  &apache.SiteEnableError{Site: "web_443"},
			want: ExitCodeApacheFailed,
		},
		{
			name: "unit command failure",
			err:  &systemd.UnitCommandError{Command: systemd.CommandRestart, Unit: "apache2", Status: 1},
			want: ExitCodeUnitFailed,
		},
		{
			name: "install failure",
			err:  &installer.InstallError{Packages: []string{"apache2"}, Reason: "exit status 100"},
			want: ExitCodeInstallFailed,
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("pass failed: %w", &systemd.UnitCommandError{Command: systemd.CommandReload, Unit: "apache2"}),
			want: ExitCodeUnitFailed,
		},
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRootCommandHelp(t *testing.T) {
	var buf bytes.Buffer

	// A fresh command so the global one is not affected.
	testRootCmd := &cobra.Command{
		Use:          "httpdctl",
		Short:        rootCmd.Short,
		Long:         rootCmd.Long,
		SilenceUsage: true,
	}

	testRootCmd.SetOut(&buf)
	testRootCmd.SetArgs([]string{"--help"})

	err := testRootCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing help command: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "httpdctl") {
		t.Errorf("Help output should contain 'httpdctl'. Got: %q", output)
	}

	if !strings.Contains(output, "converged") {
		t.Errorf("Help output should contain the long description. Got: %q", output)
	}
}

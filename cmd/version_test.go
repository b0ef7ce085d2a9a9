package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	oldVersion := version
	version = "test-1.2.3"
	defer func() { version = oldVersion }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := "gitward test-1.2.3"
	if got != want {
		t.Errorf("version output = %q, want %q", got, want)
	}
}

func TestVersionDefaultIsDev(t *testing.T) {
	oldVersion := version
	version = "dev"
	defer func() { version = oldVersion }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := "gitward dev"
	if got != want {
		t.Errorf("version output = %q, want %q", got, want)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"version":  false,
		"accounts": false,
		"profiles": false,
		"assign":   false,
		"unassign": false,
		"resolve":  false,
		"migrate":  false,
	}
	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s command not registered on rootCmd", name)
		}
	}
}

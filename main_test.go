package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Unexpected version: %s", Version)
	}
	if AppName != "duolobby" {
		t.Errorf("Unexpected app name: %s", AppName)
	}
}

func TestCommandWiring(t *testing.T) {
	commands := map[string]*cli.Command{
		"host":   hostCommand(),
		"join":   joinCommand(),
		"status": statusCommand(),
		"demo":   demoCommand(),
	}

	for name, cmd := range commands {
		if cmd.Name != name {
			t.Errorf("Expected command name %q, got %q", name, cmd.Name)
		}
		if cmd.Action == nil {
			t.Errorf("Command %q has no action", name)
		}
		if cmd.Usage == "" {
			t.Errorf("Command %q has no usage text", name)
		}
	}

	if joinCommand().ArgsUsage == "" {
		t.Error("join should document its CODE argument")
	}
}

func TestSetupRuntime(t *testing.T) {
	dir := t.TempDir()
	content := []byte("storage:\n  dir: " + filepath.Join(dir, "state") + "\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	var rt *runtime
	cmd := &cli.Command{
		Flags: []cli.Flag{&cli.StringFlag{Name: "config"}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			rt, err = setupRuntime(cmd)
			return err
		},
	}

	if err := cmd.Run(context.Background(), []string{AppName, "--config", dir}); err != nil {
		t.Fatalf("setupRuntime failed: %v", err)
	}

	if rt.cfg == nil || rt.console == nil || rt.monitor == nil || rt.channel == nil || rt.coord == nil {
		t.Errorf("Runtime not fully wired: %+v", rt)
	}
	if rt.cfg.Storage.Dir != filepath.Join(dir, "state") {
		t.Errorf("Unexpected storage dir: %q", rt.cfg.Storage.Dir)
	}
}

func TestSetupRuntime_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  baseurl: \"ftp://nope\"\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cmd := &cli.Command{
		Flags: []cli.Flag{&cli.StringFlag{Name: "config"}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := setupRuntime(cmd)
			return err
		},
	}

	if err := cmd.Run(context.Background(), []string{AppName, "--config", dir}); err == nil {
		t.Error("Expected an error for an invalid config")
	}
}

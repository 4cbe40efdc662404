package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"run", "join", "login", "preview"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := []byte("telegram:\n  api_id: 1\n  api_hash: abc\ndelays:\n  cycle: 600\n")
	if err := os.WriteFile(cfgPath, content, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DELAY_BETWEEN_MESSAGES", "5")

	a := &app{configPath: cfgPath}
	cfg, err := a.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Delays.BetweenMessages != 5 {
		t.Errorf("BetweenMessages = %d, want 5", cfg.Delays.BetweenMessages)
	}
	if cfg.Delays.Cycle != 600 {
		t.Errorf("Cycle = %d, want 600", cfg.Delays.Cycle)
	}
	if cfg.Telegram.APIHash != "abc" {
		t.Errorf("APIHash = %q, want abc", cfg.Telegram.APIHash)
	}
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	a := &app{configPath: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := a.loadConfig(); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadConfig_Dotenv(t *testing.T) {
	dir := t.TempDir()
	env := []byte("API_ID=12345\nAPI_HASH=deadbeef\nCYCLE_DELAY=42\n")
	if err := os.WriteFile(filepath.Join(dir, ".env"), env, 0600); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("log_level: info\n"), 0600); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"API_ID", "API_HASH", "CYCLE_DELAY"} {
		t.Setenv(key, "")
	}
	t.Chdir(dir)

	a := &app{configPath: cfgPath}
	cfg, err := a.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Telegram.APIID != 12345 || cfg.Telegram.APIHash != "deadbeef" {
		t.Errorf("credentials = %d/%q, want 12345/deadbeef", cfg.Telegram.APIID, cfg.Telegram.APIHash)
	}
	if cfg.Delays.Cycle != 42 {
		t.Errorf("Cycle = %d, want 42", cfg.Delays.Cycle)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	groups := filepath.Join(dir, "groups.txt")
	message := filepath.Join(dir, "message.txt")
	cfgPath := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(groups, []byte("@alpha\n\n@beta\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(message, []byte("Hello"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := "files:\n  groups: " + groups + "\n  message: " + message + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	root.SetArgs([]string{"preview", "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("preview error: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgcast.log")
	logger, closeLog, err := newLogger("info", path)
	if err != nil {
		t.Fatalf("newLogger() error: %v", err)
	}
	logger.Info("Message sent")
	logger.Debug("hidden")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"Message sent"`) {
		t.Errorf("log file = %q, want JSON entry", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry written at info level")
	}

	if _, _, err := newLogger("loud", path); err == nil {
		t.Error("expected error for unknown level")
	}
}

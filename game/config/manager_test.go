package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Rows:        5,
		Suits:       2,
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Victory: "Victory!",
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	filename := name
	if ConfigID(filename) == filename {
		filename = name + ".json"
	}

	data, err := engine.EncodeGameConfig(filename, config)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)

		manager, err := NewManager(dir, nil)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected classic to be the default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path", nil); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in default", func(t *testing.T) {
		manager, err := NewManager(t.TempDir(), nil)
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got error: %v", err)
		}
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Rows != engine.MaxRows || defaultConfig.Suits != engine.MaxSuits {
			t.Errorf("Expected classic layout, got %d rows %d suits", defaultConfig.Rows, defaultConfig.Suits)
		}
	})

	t.Run("first valid config when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Only"
		writeConfigFile(t, dir, "only.yaml", other)

		manager, err := NewManager(dir, nil)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Only" {
			t.Errorf("Expected 'Only' as default, got %q", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	jsonConfig := createValidConfig()
	jsonConfig.Name = "JSON"
	writeConfigFile(t, dir, "table", jsonConfig)

	yamlConfig := createValidConfig()
	yamlConfig.Name = "YAML"
	writeConfigFile(t, dir, "folded.yaml", yamlConfig)

	ymlConfig := createValidConfig()
	ymlConfig.Name = "YML"
	writeConfigFile(t, dir, "short.yml", ymlConfig)

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name     string
		expected string
	}{
		{"table", "JSON"},
		{"table.json", "JSON"},
		{"folded", "YAML"},
		{"folded.yaml", "YAML"},
		{"short", "YML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := manager.LoadConfig(tt.name)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if config.Name != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, config.Name)
			}
		})
	}

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("table")
		second, _ := manager.LoadConfig("table.json")
		if first != second {
			t.Error("Expected the same cached pointer")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
		_, err = manager.LoadConfig("nonexistent.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := manager.LoadConfig("../classic")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalid := createValidConfig()
		invalid.Rows = 9
		data, _ := engine.EncodeGameConfig("invalid.json", invalid)
		os.WriteFile(filepath.Join(dir, "invalid.json"), data, 0644)

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed YAML", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("rows: [\n"), 0644)
		_, err := manager.LoadConfig("broken")
		if err == nil {
			t.Error("Expected error for malformed YAML")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected a parse error, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	mini := createValidConfig()
	mini.Name = "Mini"
	mini.Rows = 3
	mini.Suits = 1
	writeConfigFile(t, dir, "mini.yaml", mini)

	invalid := createValidConfig()
	invalid.Suits = 0
	data, _ := engine.EncodeGameConfig("bad.json", invalid)
	os.WriteFile(filepath.Join(dir, "bad.json"), data, 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.json"), 0755)

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}

	if configs[0].ConfigID != "classic" || configs[1].ConfigID != "mini" {
		t.Errorf("Unexpected config ids: %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[1].Filename != "mini.yaml" {
		t.Errorf("Expected filename mini.yaml, got %s", configs[1].Filename)
	}
	if configs[1].Rows != 3 || configs[1].Suits != 1 || configs[1].CardCount != 13 {
		t.Errorf("Unexpected mini info: %+v", configs[1])
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	saved := createValidConfig()
	saved.Name = "Saved"
	for _, name := range []string{"saved", "saved_yaml.yaml"} {
		if err := manager.SaveConfig(name, saved); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected saved.json on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved_yaml.yaml")); err != nil {
		t.Errorf("Expected saved_yaml.yaml on disk: %v", err)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}
	loaded, err := manager.LoadConfig("saved_yaml")
	if err != nil {
		t.Fatalf("Failed to reload YAML config: %v", err)
	}
	if loaded.Name != "Saved" {
		t.Errorf("Expected 'Saved', got %q", loaded.Name)
	}

	invalid := createValidConfig()
	invalid.Name = ""
	if err := manager.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", saved); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for traversal, got %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	other := createValidConfig()
	other.Name = "Other"
	writeConfigFile(t, dir, "other", other)

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SetDefault("other"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.GetDefault().Name != "Other" {
		t.Errorf("Expected 'Other', got %q", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() < 6 {
		t.Errorf("Expected at least 6 configs in cache, got %d", manager.Count())
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	changed := createValidConfig()
	changed.Name = "Changed"
	writeConfigFile(t, dir, "classic", changed)

	cached, _ := manager.LoadConfig("classic")
	if cached.Name != "Test Config" {
		t.Errorf("Expected cached config before reload, got %q", cached.Name)
	}

	if err := manager.ReloadConfig("classic"); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	reloaded, _ := manager.LoadConfig("classic")
	if reloaded.Name != "Changed" {
		t.Errorf("Expected reloaded config, got %q", reloaded.Name)
	}
}

// test-only helpers

func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, ConfigID(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

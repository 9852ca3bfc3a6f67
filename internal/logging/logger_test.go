package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func allCategories() []Category {
	return []Category{
		CategoryBoot,
		CategoryRegistry,
		CategoryVerify,
		CategorySubmission,
		CategoryGame,
		CategoryStore,
		CategoryUI,
	}
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Initialize(Config{DebugMode: true, Level: "debug", Dir: dir}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	t.Cleanup(func() { _ = Initialize(Config{}) })

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	for _, cat := range allCategories() {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	Boot("Convenience boot log")
	Registry("Convenience registry log")
	Verify("Convenience verify log")
	Submission("Convenience submission log")
	Game("Convenience game log")
	Store("Convenience store log")
	UI("Convenience ui log")

	CloseAll()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	for _, cat := range allCategories() {
		found := false
		for _, entry := range entries {
			if !strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				continue
			}
			found = true
			content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				t.Errorf("Failed to read log file for %s: %v", cat, err)
				continue
			}
			if !strings.Contains(string(content), "Test info message for "+string(cat)) {
				t.Errorf("Log file for %s is missing the info entry", cat)
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created when debug_mode is false
func TestDebugModeDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Initialize(Config{DebugMode: false, Dir: dir}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	Get(CategoryVerify).Info("should not be written")
	Verify("should not be written either")
	CloseAll()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected no logs directory in production mode, stat err = %v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	err := Initialize(Config{
		DebugMode:  true,
		Dir:        dir,
		Categories: map[string]bool{"ui": false},
	})
	if err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	t.Cleanup(func() { _ = Initialize(Config{}) })

	if IsCategoryEnabled(CategoryUI) {
		t.Error("ui category should be disabled")
	}
	if !IsCategoryEnabled(CategoryStore) {
		t.Error("categories missing from the filter default to enabled")
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Initialize(Config{DebugMode: true, Level: "warn", Dir: dir}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	t.Cleanup(func() { _ = Initialize(Config{}) })

	l := Get(CategoryGame)
	l.Info("quiet info")
	l.Warn("loud warning")
	l.WithContext(map[string]interface{}{"challenge": "two-sum"}).Error("with context")
	CloseAll()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	var content string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_game.log") {
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				t.Fatal(err)
			}
			content = string(data)
		}
	}
	if strings.Contains(content, "quiet info") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(content, "loud warning") {
		t.Error("warn entry should be written")
	}
	if !strings.Contains(content, "two-sum") {
		t.Error("context fields should be written")
	}
}

func TestInitializeRequiresDirInDebugMode(t *testing.T) {
	if err := Initialize(Config{DebugMode: true}); err == nil {
		t.Error("expected an error without a log directory")
	}
	_ = Initialize(Config{})
}

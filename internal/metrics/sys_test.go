package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "guide.db"), make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	health := GetSysHealth(dir)
	if health.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", health.Goroutines)
	}
	if health.DataDiskSize != "2.0 KB" {
		t.Errorf("Expected data size '2.0 KB', got '%s'", health.DataDiskSize)
	}
}

func TestDirSizeHuman(t *testing.T) {
	tests := []struct {
		name  string
		bytes int
		want  string
	}{
		{"Bytes", 512, "512 B"},
		{"Kilobytes", 3 * 1024, "3.0 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "f"), make([]byte, tt.bytes), 0644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}
			if got := dirSizeHuman(dir); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

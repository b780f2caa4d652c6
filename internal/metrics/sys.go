package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
)

// SysHealth is a point-in-time snapshot of the process: memory in use,
// goroutine count and the on-disk size of the guide's data directory.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	Goroutines   int
	DataDiskSize string
}

// GetSysHealth samples the Go runtime and measures dataPath on disk.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: dirSizeHuman(dataPath),
	}
}

// dirSizeHuman totals the regular files under path and renders the result
// in a human-readable unit.
func dirSizeHuman(path string) string {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits поднимает лимит открытых файлов до want (не выше
// жёсткого лимита) и возвращает установленное значение.
func InitResourceLimits(want uint64) (uint64, error) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("getrlimit: %w", err)
	}
	if rLimit.Cur >= want {
		return rLimit.Cur, nil
	}

	rLimit.Cur = min(want, rLimit.Max)
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, fmt.Errorf("setrlimit: %w", err)
	}
	return rLimit.Cur, nil
}

// RecommendedWorkers sizes the worker pool by physical cores, capped so
// that memPerWorker bytes per worker fit into available memory.
func RecommendedWorkers(memPerWorker uint64) int {
	workers, err := cpu.Counts(false)
	if err != nil || workers < 1 {
		workers = runtime.NumCPU()
	}
	if memPerWorker == 0 {
		return workers
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		workers = min(workers, int(vm.Available/memPerWorker))
	}
	return max(1, workers)
}

// FindLatestFile returns the most recently modified file in dir whose
// extension is one of exts (case-insensitive).
func FindLatestFile(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}
	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

package metrics

import (
	"fmt"
	"os"
	"runtime"
)

// sqliteFiles are the suffixes of the files a WAL-mode SQLite database spans.
var sqliteFiles = []string{"", "-wal", "-shm"}

// Health is a snapshot of the process runtime and the database footprint.
type Health struct {
	HeapMB        uint64 `json:"heapMb"`
	ReservedMB    uint64 `json:"reservedMb"`
	GCCycles      uint32 `json:"gcCycles"`
	Goroutines    int    `json:"goroutines"`
	DatabaseBytes int64  `json:"databaseBytes"`
	Database      string `json:"database"`
}

// ReadHealth samples the runtime and sizes the SQLite database at dbPath.
// An empty dbPath reports a zero-sized database.
func ReadHealth(dbPath string) Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	size := DatabaseSize(dbPath)
	return Health{
		HeapMB:        m.HeapAlloc >> 20,
		ReservedMB:    m.Sys >> 20,
		GCCycles:      m.NumGC,
		Goroutines:    runtime.NumGoroutine(),
		DatabaseBytes: size,
		Database:      FormatBytes(size),
	}
}

// DatabaseSize sums the database file and its WAL and shared-memory files.
// Missing or unreadable files count as zero.
func DatabaseSize(dbPath string) int64 {
	if dbPath == "" {
		return 0
	}
	var total int64
	for _, suffix := range sqliteFiles {
		info, err := os.Stat(dbPath + suffix)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		total += info.Size()
	}
	return total
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	units := []string{"KB", "MB", "GB", "TB"}
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}

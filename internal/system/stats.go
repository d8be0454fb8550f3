package system

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a resource snapshot taken after a run.
type Stats struct {
	Elapsed       time.Duration
	RSS           uint64
	CPUPercent    float64
	TotalMemory   uint64
	UsedPercent   float64
	Goroutines    int
	HeapAllocated uint64
}

// CollectStats samples this process and the host. Host or process readings
// that fail are left zero.
func CollectStats(start time.Time) Stats {
	st := Stats{
		Elapsed:    time.Since(start),
		Goroutines: runtime.NumGoroutine(),
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	st.HeapAllocated = ms.HeapAlloc

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfo(); err == nil {
			st.RSS = info.RSS
		}
		if cpu, err := p.CPUPercent(); err == nil {
			st.CPUPercent = cpu
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.TotalMemory = vm.Total
		st.UsedPercent = vm.UsedPercent
	}
	return st
}

// Report formats st the way the run summary prints it.
func (st Stats) Report(build string) string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Process RSS: %s (heap %s)\n"+
			"Process CPU: %.1f%%\n"+
			"Host Memory: %s, %.1f%% used\n"+
			"Goroutines: %d\n"+
			"----------------------------\n",
		build, st.Elapsed.Seconds(),
		FormatBytes(st.RSS), FormatBytes(st.HeapAllocated),
		st.CPUPercent,
		FormatBytes(st.TotalMemory), st.UsedPercent,
		st.Goroutines,
	)
}

// FormatBytes renders n with a binary unit.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

package util

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// SysInfo is a small host snapshot for the health endpoint.
type SysInfo struct {
	OS          string  `json:"os"`
	Platform    string  `json:"platform"`
	HostUptime  uint64  `json:"hostUptime"`
	MemTotal    uint64  `json:"memTotal"`
	MemUsedPct  float64 `json:"memUsedPercent"`
	Goroutines  int     `json:"goroutines"`
	HeapAlloc   uint64  `json:"heapAlloc"`
	CollectedAt int64   `json:"collectedAt"`
}

// GetSysInfo collects host and runtime stats. Host fields stay zero when
// gopsutil cannot read them.
// 获取主机与运行时信息
func GetSysInfo() SysInfo {
	info := SysInfo{
		OS:          runtime.GOOS,
		Goroutines:  runtime.NumGoroutine(),
		CollectedAt: time.Now().Unix(),
	}
	if h, err := host.Info(); err == nil {
		info.Platform = h.Platform + " " + h.PlatformVersion
		info.HostUptime = h.Uptime
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemTotal = vm.Total
		info.MemUsedPct = vm.UsedPercent
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	info.HeapAlloc = ms.HeapAlloc
	return info
}

// Package sysmon samples system-wide resource usage and describes the host
// the calculation runs on.
package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	MemTotal   uint64  // bytes
	MemFree    uint64  // bytes available for new allocations
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Fields are zero on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemTotal = vmem.Total
		s.MemFree = vmem.Available
	}
	return s
}

// Host describes the machine for the execution banner.
type Host struct {
	ModelName string
	Cores     int
	Features  []string
}

// DescribeHost returns the CPU model and the arithmetic-relevant instruction
// set extensions detected at startup.
func DescribeHost() Host {
	h := Host{Cores: runtime.NumCPU(), Features: CPUFeatures()}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.ModelName = strings.TrimSpace(infos[0].ModelName)
	}
	if h.ModelName == "" {
		h.ModelName = runtime.GOARCH
	}
	return h
}

// CPUFeatures lists the detected extensions that speed up multi-precision
// multiplication.
func CPUFeatures() []string {
	var feats []string
	add := func(ok bool, name string) {
		if ok {
			feats = append(feats, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasAVX2, "AVX2")
		add(xcpu.X86.HasAVX512F, "AVX512F")
		add(xcpu.X86.HasBMI2, "BMI2")
		add(xcpu.X86.HasADX, "ADX")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "ASIMD")
		add(xcpu.ARM64.HasSVE, "SVE")
	}
	return feats
}

// FeatureString joins CPUFeatures for display, or "none".
func FeatureString() string {
	f := CPUFeatures()
	if len(f) == 0 {
		return "none"
	}
	return strings.Join(f, " ")
}

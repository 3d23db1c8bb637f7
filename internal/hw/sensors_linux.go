//go:build linux

package hw

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"

	"github.com/hiveden/sysintel/internal/logger"
)

const cpuinfoPath = "/proc/cpuinfo"

func newClockSensor() ClockSensor {
	return sysfsClock{}
}

// sysfsClock reads cpufreq from sysfs and falls back to gopsutil when the
// cpufreq interface is missing, e.g. inside most virtual machines.
type sysfsClock struct{}

func (c sysfsClock) Available(ctx context.Context) bool {
	f, err := c.Frequency(ctx)
	return err == nil && f != nil
}

func (sysfsClock) Frequency(ctx context.Context) (*Frequency, error) {
	fs, err := sysfs.NewDefaultFS()
	if err == nil {
		var stats []sysfs.SystemCPUCpufreqStats
		stats, err = fs.SystemCpufreq()
		if err == nil {
			if f := frequencyFromCpufreq(stats); f != nil {
				return f, nil
			}
		}
	}
	logger.HW.Debug().Err(err).Msg("cpufreq not available, falling back to cpuinfo")
	return gopsutilClock{}.Frequency(ctx)
}

// frequencyFromCpufreq reduces per-CPU cpufreq stats (kHz) to the mean current
// frequency and the overall minimum and maximum, in MHz.
func frequencyFromCpufreq(stats []sysfs.SystemCPUCpufreqStats) *Frequency {
	var f Frequency
	var total float64
	var n int
	for _, s := range stats {
		cur := s.ScalingCurrentFrequency
		if cur == nil {
			cur = s.CpuinfoCurrentFrequency
		}
		if cur != nil {
			total += float64(*cur) / 1000
			n++
		}
		if s.CpuinfoMinimumFrequency != nil {
			v := float64(*s.CpuinfoMinimumFrequency) / 1000
			if f.Min == nil || v < *f.Min {
				f.Min = &v
			}
		}
		if s.CpuinfoMaximumFrequency != nil {
			v := float64(*s.CpuinfoMaximumFrequency) / 1000
			if f.Max == nil || v > *f.Max {
				f.Max = &v
			}
		}
	}
	if n > 0 {
		current := total / float64(n)
		f.Current = &current
	}
	if f.Current == nil && f.Min == nil && f.Max == nil {
		return nil
	}
	return &f
}

// addPlatformDetails adds the hardware string and the legacy cache size line
// from /proc/cpuinfo.
func addPlatformDetails(raw *RawCPUInfo) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		logger.HW.Debug().Err(err).Msg("procfs not available")
		return
	}
	if infos, err := fs.CPUInfo(); err == nil && len(infos) > 0 {
		first := infos[0]
		if raw.VendorIDRaw == "" {
			raw.VendorIDRaw = first.VendorID
		}
		if raw.BrandRaw == "" {
			raw.BrandRaw = first.ModelName
		}
		if raw.CacheSize[2] == "" && first.CacheSize != "" {
			raw.CacheSize[2] = first.CacheSize
		}
	} else if err != nil {
		logger.HW.Debug().Err(err).Msg("failed to parse cpuinfo")
	}

	f, err := os.Open(cpuinfoPath)
	if err != nil {
		logger.HW.Debug().Err(err).Msg("failed to open cpuinfo")
		return
	}
	defer f.Close()
	raw.HardwareRaw = parseHardware(f)
}

// parseHardware returns the value of the "Hardware" line of /proc/cpuinfo,
// which is only present on some ARM systems.
func parseHardware(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.TrimSpace(key) == "Hardware" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

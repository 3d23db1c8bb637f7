package hw

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/memory"
	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/hiveden/sysintel/internal/logger"
	"github.com/hiveden/sysintel/internal/platform"
)

// DefaultSensors returns the sensors backed by the host's CPU and OS interfaces.
func DefaultSensors(info platform.Info) Sensors {
	return Sensors{
		Identifier: &cpuIdentifier{arch: info.Architecture},
		Clock:      newClockSensor(),
		Cores:      coreCounter{},
		Commands:   execRunner{},
	}
}

// cpuIdentifier reads identification data with cpuid, falling back to ghw and
// to platform-specific sources for anything cpuid does not report.
type cpuIdentifier struct {
	arch string
}

func (i *cpuIdentifier) Available(ctx context.Context) bool {
	if cpuid.CPU.VendorID != cpuid.VendorUnknown || cpuid.CPU.BrandName != "" {
		return true
	}
	_, err := ghw.CPU(ghw.WithDisableWarnings())
	return err == nil
}

func (i *cpuIdentifier) Identify(ctx context.Context) (*RawCPUInfo, error) {
	raw := &RawCPUInfo{
		VendorIDRaw:   cpuid.CPU.VendorString,
		BrandRaw:      strings.TrimSpace(cpuid.CPU.BrandName),
		Arch:          i.arch,
		DataCacheSize: map[int]string{},
		CacheSize:     map[int]string{},
	}
	if raw.Arch == "" {
		raw.Arch = runtime.GOARCH
	}
	setBytes(raw.DataCacheSize, 1, cpuid.CPU.Cache.L1D)
	setBytes(raw.CacheSize, 2, cpuid.CPU.Cache.L2)
	setBytes(raw.CacheSize, 3, cpuid.CPU.Cache.L3)

	if raw.VendorIDRaw == "" || raw.BrandRaw == "" {
		if info, err := ghw.CPU(ghw.WithDisableWarnings()); err == nil && len(info.Processors) > 0 {
			if raw.VendorIDRaw == "" {
				raw.VendorIDRaw = info.Processors[0].Vendor
			}
			if raw.BrandRaw == "" {
				raw.BrandRaw = info.Processors[0].Model
			}
		} else if err != nil {
			logger.HW.Debug().Err(err).Msg("ghw CPU info not available")
		}
	}
	if topo, err := ghw.Topology(ghw.WithDisableWarnings()); err == nil {
		for _, node := range topo.Nodes {
			addTopologyCaches(raw, node.Caches)
		}
	} else {
		logger.HW.Debug().Err(err).Msg("ghw topology not available")
	}
	addPlatformDetails(raw)

	if raw.VendorIDRaw == "" && raw.BrandRaw == "" {
		return nil, errors.New("no CPU identification reported")
	}
	return raw, nil
}

// addTopologyCaches fills cache levels that are still unknown. Instruction
// caches are skipped.
func addTopologyCaches(raw *RawCPUInfo, caches []*memory.Cache) {
	for _, c := range caches {
		if c == nil || c.SizeBytes == 0 {
			continue
		}
		level := int(c.Level)
		switch c.Type {
		case memory.CacheTypeInstruction:
			continue
		case memory.CacheTypeData:
			if raw.DataCacheSize[level] == "" {
				raw.DataCacheSize[level] = fmt.Sprintf("%d B", c.SizeBytes)
			}
		default:
			if raw.CacheSize[level] == "" && raw.DataCacheSize[level] == "" {
				raw.CacheSize[level] = fmt.Sprintf("%d B", c.SizeBytes)
			}
		}
	}
}

func setBytes(m map[int]string, level, size int) {
	if size > 0 {
		m[level] = fmt.Sprintf("%d B", size)
	}
}

// gopsutilClock reports the mean clock across CPUs as the current frequency.
type gopsutilClock struct{}

func (gopsutilClock) Available(ctx context.Context) bool {
	f, err := gopsutilClock{}.Frequency(ctx)
	return err == nil && f != nil
}

func (gopsutilClock) Frequency(ctx context.Context) (*Frequency, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU info: %w", err)
	}
	var total float64
	var n int
	for _, info := range infos {
		if info.Mhz > 0 {
			total += info.Mhz
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	current := total / float64(n)
	return &Frequency{Current: &current}, nil
}

// coreCounter counts cores with gopsutil and falls back to ghw.
type coreCounter struct{}

func (c coreCounter) Available(ctx context.Context) bool {
	n, err := c.Counts(ctx, true)
	return err == nil && n > 0
}

func (coreCounter) Counts(ctx context.Context, logical bool) (int, error) {
	n, err := cpu.CountsWithContext(ctx, logical)
	if err == nil && n > 0 {
		return n, nil
	}
	info, ghwErr := ghw.CPU(ghw.WithDisableWarnings())
	if ghwErr != nil {
		if err == nil {
			err = ghwErr
		}
		return 0, fmt.Errorf("failed to count cores: %w", err)
	}
	if logical {
		return int(info.TotalHardwareThreads), nil
	}
	return int(info.TotalCores), nil
}

type execRunner struct{}

func (execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

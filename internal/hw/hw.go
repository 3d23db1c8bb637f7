// Package hw queries the local CPU and assembles a display record.
package hw

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/hiveden/sysintel/internal/logger"
	"github.com/hiveden/sysintel/internal/platform"
	"github.com/hiveden/sysintel/internal/units"
)

// SysctlTimeout bounds the sysctl call used to look up cache sizes on darwin.
const SysctlTimeout = 5 * time.Second

// CacheLevels lists the cache levels reported in a CPU record.
var CacheLevels = []int{1, 2, 3}

var sysctlCacheKeys = map[int]string{
	1: "hw.l1dcachesize",
	3: "hw.l3cachesize",
}

// Query reads CPU data from its sensors and formats it for display.
type Query struct {
	sensors    Sensors
	caps       Capabilities
	class      platform.Class
	humanClock bool
}

// Option configures a Query.
type Option func(*Query)

// WithHumanClock renders clock frequencies with the largest fitting unit
// instead of raw MHz.
func WithHumanClock(enabled bool) Option {
	return func(q *Query) {
		q.humanClock = enabled
	}
}

// NewQuery creates a Query. caps is usually the result of Probe on the same sensors.
func NewQuery(sensors Sensors, caps Capabilities, class platform.Class, opts ...Option) *Query {
	q := &Query{sensors: sensors, caps: caps, class: class}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Probe checks once which sensors can report data on this host.
func Probe(ctx context.Context, sensors Sensors) Capabilities {
	caps := Capabilities{
		Identification: sensors.Identifier != nil && sensors.Identifier.Available(ctx),
		Clock:          sensors.Clock != nil && sensors.Clock.Available(ctx),
		Cores:          sensors.Cores != nil && sensors.Cores.Available(ctx),
	}
	if !caps.Identification {
		logger.HW.Warn().Msg("CPU identification is not supported on this system, CPU information may be limited")
	}
	if !caps.Clock {
		logger.HW.Info().Msg("CPU clock frequency is not available")
	}
	if !caps.Cores {
		logger.HW.Info().Msg("CPU core counts are not available")
	}
	return caps
}

// Capabilities returns the capability flags the Query was created with.
func (q *Query) Capabilities() Capabilities {
	return q.caps
}

// CPU gathers information about the CPU present in the system. The record is
// empty when CPU identification is unavailable.
func (q *Query) CPU(ctx context.Context) Record {
	if !q.caps.Identification {
		return Record{}
	}
	raw, err := q.sensors.Identifier.Identify(ctx)
	if err != nil {
		logger.HW.Warn().Err(err).Msg("failed to identify CPU")
		return Record{}
	}

	current, minimum, maximum := q.Clock(ctx)
	logical, physical := q.Cores(ctx)
	cache := q.CacheSizes(ctx, raw)

	hardware := ""
	if q.class.IsLinux() {
		hardware = raw.HardwareRaw
	}

	return NewRecord(
		Field{KeyVendorID, raw.VendorIDRaw},
		Field{KeyHardware, hardware},
		Field{KeyBrand, raw.BrandRaw},
		Field{KeyArch, raw.Arch},
		Field{KeyLogicalCores, formatCount(logical)},
		Field{KeyPhysicalCores, formatCount(physical)},
		Field{KeyClock, q.formatClock(current)},
		Field{KeyClockMin, q.formatClock(minimum)},
		Field{KeyClockMax, q.formatClock(maximum)},
		Field{KeyCache, cache.Format(q.class)},
	)
}

// Clock returns the current, minimum and maximum clock frequency in MHz.
// All values are nil when the sensor is unavailable or reports nothing.
func (q *Query) Clock(ctx context.Context) (current, minimum, maximum *float64) {
	if !q.caps.Clock {
		return nil, nil, nil
	}
	freq, err := q.sensors.Clock.Frequency(ctx)
	if err != nil {
		logger.HW.Debug().Err(err).Msg("failed to read CPU frequency")
		return nil, nil, nil
	}
	if freq == nil {
		return nil, nil, nil
	}
	return freq.Current, freq.Min, freq.Max
}

// Cores returns the number of logical and physical cores.
func (q *Query) Cores(ctx context.Context) (logical, physical *int) {
	if !q.caps.Cores {
		return nil, nil
	}
	return q.count(ctx, true), q.count(ctx, false)
}

func (q *Query) count(ctx context.Context, logical bool) *int {
	n, err := q.sensors.Cores.Counts(ctx, logical)
	if err != nil || n <= 0 {
		logger.HW.Debug().Err(err).Bool("logical", logical).Msg("core count not reported")
		return nil
	}
	return &n
}

// CacheSizes returns the size in bytes of every cache level.
func (q *Query) CacheSizes(ctx context.Context, raw *RawCPUInfo) CacheSizes {
	sizes := CacheSizes{}
	for _, level := range CacheLevels {
		sizes[level] = q.CacheSize(ctx, level, raw)
	}
	return sizes
}

// CacheSize returns the size in bytes of the cache at the given level, or nil
// when it cannot be determined. On darwin every level but L2 comes from sysctl.
func (q *Query) CacheSize(ctx context.Context, level int, raw *RawCPUInfo) *uint64 {
	if q.class == platform.Darwin && level != 2 {
		return q.sysctlCacheSize(ctx, level)
	}
	if raw == nil {
		return nil
	}
	value := raw.DataCacheSize[level]
	if value == "" {
		value = raw.CacheSize[level]
	}
	if value == "" {
		return nil
	}
	size, err := units.ParseBytes(value)
	if err != nil {
		logger.HW.Warn().Err(err).Int("level", level).Msg("failed to parse cache size")
		return nil
	}
	logger.HW.Debug().Int("level", level).Str("raw", value).Uint64("bytes", size).Msg("parsed cache size")
	return &size
}

func (q *Query) sysctlCacheSize(ctx context.Context, level int) *uint64 {
	key, ok := sysctlCacheKeys[level]
	if !ok {
		return nil
	}
	if q.sensors.Commands == nil {
		logger.HW.Warn().Int("level", level).Msg("no command runner, unable to fetch cache size")
		return nil
	}
	if _, err := q.sensors.Commands.LookPath("sysctl"); err != nil {
		logger.HW.Warn().Err(err).Msg("sysctl command is not accessible, unable to fetch detailed L1 and L3 cache size information")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, SysctlTimeout)
	defer cancel()

	out, err := q.sensors.Commands.Run(ctx, "sysctl", "-n", key)
	if err != nil {
		logger.HW.Warn().Err(err).Str("key", key).Msg("failed to run sysctl")
		return nil
	}
	size, err := cast.ToUint64E(strings.TrimSpace(string(out)))
	if err != nil || size == 0 {
		logger.HW.Warn().Err(err).Str("key", key).Msg("sysctl did not report a cache size")
		return nil
	}
	return &size
}

// Format renders the cache sizes as "{1: 48 KiB, 2: 2 MiB, 3: NA}".
func (c CacheSizes) Format(class platform.Class) string {
	parts := make([]string, 0, len(CacheLevels))
	for _, level := range CacheLevels {
		value := ""
		if size := c[level]; size != nil {
			value = units.FormatBytes(*size, class)
		}
		if value == "" {
			value = units.NotAvailable
		}
		parts = append(parts, fmt.Sprintf("%d: %s", level, value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (q *Query) formatClock(mhz *float64) string {
	if mhz == nil {
		return units.NotAvailable
	}
	if q.humanClock {
		s, err := units.HzToHumanString(int64(*mhz * 1e6))
		if err == nil {
			return s
		}
		logger.HW.Debug().Err(err).Float64("mhz", *mhz).Msg("falling back to raw clock")
	}
	return strconv.FormatFloat(*mhz, 'f', -1, 64) + " MHz"
}

func formatCount(n *int) string {
	if n == nil {
		return units.NotAvailable
	}
	return strconv.Itoa(*n)
}

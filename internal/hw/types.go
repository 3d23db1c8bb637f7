package hw

import (
	"context"
)

// RawCPUInfo holds identification data as reported by the system, before any
// formatting. Cache descriptors are keyed by level and carry their own unit,
// e.g. "48 KiB", "1280 KB" or "49152 B".
type RawCPUInfo struct {
	VendorIDRaw   string
	HardwareRaw   string
	BrandRaw      string
	Arch          string
	DataCacheSize map[int]string
	CacheSize     map[int]string
}

// Frequency holds clock frequencies in MHz. A nil field was not reported.
type Frequency struct {
	Current *float64
	Min     *float64
	Max     *float64
}

// CacheSizes maps a cache level to its size in bytes. A nil entry is unavailable.
type CacheSizes map[int]*uint64

// Capabilities records which collaborators can report data on this host.
type Capabilities struct {
	Identification bool
	Clock          bool
	Cores          bool
}

// Identifier reads CPU identification strings and raw cache descriptors.
type Identifier interface {
	Available(ctx context.Context) bool
	Identify(ctx context.Context) (*RawCPUInfo, error)
}

// ClockSensor reads CPU clock frequencies.
type ClockSensor interface {
	Available(ctx context.Context) bool
	Frequency(ctx context.Context) (*Frequency, error)
}

// CoreCounter reads logical or physical core counts.
type CoreCounter interface {
	Available(ctx context.Context) bool
	Counts(ctx context.Context, logical bool) (int, error)
}

// CommandRunner looks up and runs external commands.
type CommandRunner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Sensors bundles the collaborators a Query reads from. Any of them may be nil.
type Sensors struct {
	Identifier Identifier
	Clock      ClockSensor
	Cores      CoreCounter
	Commands   CommandRunner
}

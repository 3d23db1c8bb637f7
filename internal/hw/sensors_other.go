//go:build !linux

package hw

func newClockSensor() ClockSensor {
	return gopsutilClock{}
}

func addPlatformDetails(raw *RawCPUInfo) {}

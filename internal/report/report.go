package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/hiveden/sysintel/internal/hw"
	"github.com/hiveden/sysintel/internal/logger"
	"github.com/hiveden/sysintel/internal/platform"
)

const (
	CPUTitle = "Central Processing Unit"
	OSTitle  = "Operating System"
)

// CPUColumns are the column headers of the CPU table, in record order.
var CPUColumns = []string{
	"Vendor ID",
	"Hardware",
	"Brand",
	"Architecture",
	"Logical Cores",
	"Physical Cores",
	"Clock",
	"Minimal Clock",
	"Maximal Clock",
	"Cache",
}

// OSColumns are the column headers of the OS table.
var OSColumns = []string{
	"OS",
	"Distribution",
	"Version",
	"Kernel",
	"Architecture",
	"Platform",
}

// PrintCPU renders a CPU record as a table. An empty record renders the
// headers only.
func PrintCPU(w io.Writer, record hw.Record, opts ...Option) error {
	t := NewTable(CPUTitle, CPUColumns, append([]Option{WithWriter(w)}, opts...)...)
	if record.Len() == 0 {
		logger.Report.Warn().Msg("no CPU information available")
		return t.Render()
	}
	if err := t.AddRow(record.Values()...); err != nil {
		return err
	}
	return t.Render()
}

// PrintOS renders host details as a table.
func PrintOS(w io.Writer, info platform.Info, opts ...Option) error {
	t := NewTable(OSTitle, OSColumns, append([]Option{WithWriter(w)}, opts...)...)
	if err := t.AddRow(info.OS, info.Distro, info.Version, info.KernelVersion, info.Architecture, info.Platform()); err != nil {
		return err
	}
	return t.Render()
}

// CPUDocument returns the record as an ordered YAML section.
func CPUDocument(record hw.Record) yaml.MapItem {
	fields := yaml.MapSlice{}
	for _, f := range record.Fields() {
		fields = append(fields, yaml.MapItem{Key: f.Key, Value: f.Value})
	}
	return yaml.MapItem{Key: "cpu", Value: fields}
}

// OSDocument returns host details as an ordered YAML section.
func OSDocument(info platform.Info) yaml.MapItem {
	return yaml.MapItem{Key: "os", Value: yaml.MapSlice{
		{Key: "os", Value: info.OS},
		{Key: "distro", Value: info.Distro},
		{Key: "version", Value: info.Version},
		{Key: "kernel_version", Value: info.KernelVersion},
		{Key: "architecture", Value: info.Architecture},
		{Key: "class", Value: info.Class.String()},
		{Key: "platform", Value: info.Platform()},
	}}
}

// WriteYAML writes the sections as a single YAML document.
func WriteYAML(w io.Writer, sections ...yaml.MapItem) error {
	data, err := yaml.Marshal(yaml.MapSlice(sections))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

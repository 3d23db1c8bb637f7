package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveden/sysintel/internal/hw"
	"github.com/hiveden/sysintel/internal/platform"
)

func cpuRecord() hw.Record {
	return hw.NewRecord(
		hw.Field{Key: hw.KeyVendorID, Value: "GenuineIntel"},
		hw.Field{Key: hw.KeyHardware, Value: ""},
		hw.Field{Key: hw.KeyBrand, Value: "Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz"},
		hw.Field{Key: hw.KeyArch, Value: "x86_64"},
		hw.Field{Key: hw.KeyLogicalCores, Value: "8"},
		hw.Field{Key: hw.KeyPhysicalCores, Value: "4"},
		hw.Field{Key: hw.KeyClock, Value: "1992.002 MHz"},
		hw.Field{Key: hw.KeyClockMin, Value: "400 MHz"},
		hw.Field{Key: hw.KeyClockMax, Value: "4000 MHz"},
		hw.Field{Key: hw.KeyCache, Value: "{1: 32 KiB, 2: 256 KiB, 3: 8 MiB}"},
	)
}

func TestAddRow(t *testing.T) {
	tbl := NewTable("Test", []string{"A", "B"})

	require.NoError(t, tbl.AddRow("1", "{x: y}"))
	assert.Equal(t, [][]string{{"1", "x: y"}}, tbl.Rows())

	err := tbl.AddRow("only one")
	assert.True(t, errors.Is(err, ErrColumnMismatch))
	err = tbl.AddRow("1", "2", "3")
	assert.ErrorIs(t, err, ErrColumnMismatch)

	assert.Len(t, tbl.Rows(), 1)
	for _, row := range tbl.Rows() {
		assert.Len(t, row, len(tbl.Columns()))
	}
}

func TestNewTableCopiesColumns(t *testing.T) {
	columns := []string{"A", "B"}
	tbl := NewTable("Test", columns)
	columns[0] = "changed"

	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
	assert.Equal(t, "Test", tbl.Title())
	assert.Empty(t, tbl.Rows())
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable("Numbers", []string{"Name", "Value"}, WithWriter(&buf), WithColor(false))
	require.NoError(t, tbl.AddRow("one", "1"))
	require.NoError(t, tbl.AddRow("two", "2"))

	require.NoError(t, tbl.Render())

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Greater(t, len(lines), 4)
	assert.Equal(t, "Numbers", strings.TrimSpace(lines[0]))
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Value")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Equal(t, "┏", string([]rune(lines[1])[0]))
	assert.Contains(t, out, "╇")
	assert.Contains(t, out, "│ one")
	assert.Equal(t, "└", string([]rune(lines[len(lines)-1])[0]))
	assert.NotContains(t, out, "┃")
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))
}

func TestPrintCPU(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintCPU(&buf, cpuRecord(), WithColor(false)))

	out := buf.String()
	assert.Contains(t, out, CPUTitle)
	for _, column := range CPUColumns {
		assert.Contains(t, out, column)
	}
	assert.Contains(t, out, "GenuineIntel")
	assert.Contains(t, out, "1: 32 KiB, 2: 256 KiB, 3: 8 MiB")
	assert.NotContains(t, out, "{")
	assert.NotContains(t, out, "}")
}

func TestPrintCPUEmptyRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintCPU(&buf, hw.Record{}, WithColor(false)))

	out := buf.String()
	assert.Contains(t, out, CPUTitle)
	assert.Contains(t, out, "Vendor ID")
}

func TestPrintCPURecordMismatch(t *testing.T) {
	var buf bytes.Buffer
	record := hw.NewRecord(hw.Field{Key: hw.KeyVendorID, Value: "GenuineIntel"})

	err := PrintCPU(&buf, record, WithColor(false))
	assert.ErrorIs(t, err, ErrColumnMismatch)
	assert.Empty(t, buf.String())
}

func TestPrintOS(t *testing.T) {
	var buf bytes.Buffer
	info := platform.Info{
		OS:            "linux",
		Distro:        "ubuntu",
		Version:       "24.04",
		KernelVersion: "6.8.0-45-generic",
		Architecture:  "x86_64",
		Class:         platform.Ubuntu,
	}
	require.NoError(t, PrintOS(&buf, info, WithColor(false)))

	out := buf.String()
	assert.Contains(t, out, OSTitle)
	assert.Contains(t, out, "Distribution")
	assert.Contains(t, out, "Linux-6.8.0-45-generic-x86_64-with-ubuntu-24.04")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	info := platform.Info{OS: "darwin", KernelVersion: "23.5.0", Architecture: "arm64", Class: platform.Darwin}

	require.NoError(t, WriteYAML(&buf, CPUDocument(cpuRecord()), OSDocument(info)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "cpu:\n  vendor_id_raw: GenuineIntel\n"))
	assert.Contains(t, out, "  cache: '{1: 32 KiB, 2: 256 KiB, 3: 8 MiB}'\n")
	assert.Contains(t, out, "os:\n  os: darwin\n")
	assert.Contains(t, out, "  class: darwin\n")
	assert.Contains(t, out, "  platform: Darwin-23.5.0-arm64\n")
	assert.Less(t, strings.Index(out, "logical_cores"), strings.Index(out, "physical_cores"))
}

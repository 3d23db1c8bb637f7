package hw

// Record keys, in the order they are declared in a CPU record.
const (
	KeyVendorID      = "vendor_id_raw"
	KeyHardware      = "hardware_raw"
	KeyBrand         = "brand_raw"
	KeyArch          = "arch"
	KeyLogicalCores  = "logical_cores"
	KeyPhysicalCores = "physical_cores"
	KeyClock         = "clock"
	KeyClockMin      = "clock_min"
	KeyClockMax      = "clock_max"
	KeyCache         = "cache"
)

// Field is a single named value of a Record.
type Field struct {
	Key   string
	Value string
}

// Record is an ordered, read-only set of formatted values.
type Record struct {
	fields []Field
}

// NewRecord builds a Record holding a copy of fields.
func NewRecord(fields ...Field) Record {
	return Record{fields: append([]Field(nil), fields...)}
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Fields returns a copy of the fields in declared order.
func (r Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Keys returns the field names in declared order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Values returns the field values in declared order.
func (r Record) Values() []string {
	values := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		values = append(values, f.Value)
	}
	return values
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

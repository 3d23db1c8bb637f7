package platform

// Class identifies the host OS or distribution. It selects the unit base used
// for byte formatting and the strategy used to look up cache sizes.
type Class string

const (
	Linux   Class = "linux"
	Ubuntu  Class = "ubuntu"
	Darwin  Class = "darwin"
	Windows Class = "windows"
	FreeBSD Class = "freebsd"
	Unknown Class = "unknown"
)

// Info holds details about the host system.
type Info struct {
	OS            string
	Distro        string
	Version       string
	KernelVersion string
	Architecture  string
	Class         Class
}

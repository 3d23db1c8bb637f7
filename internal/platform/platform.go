// Package platform detects the host operating system and classifies it.
package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var knownClasses = map[string]Class{
	string(Linux):   Linux,
	string(Ubuntu):  Ubuntu,
	string(Darwin):  Darwin,
	string(Windows): Windows,
	string(FreeBSD): FreeBSD,
}

// Detect retrieves key information about the host system and its classification.
func Detect(ctx context.Context) (Info, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Info{Class: Unknown}, fmt.Errorf("failed to get host info: %w", err)
	}

	return Info{
		OS:            info.OS,
		Distro:        info.Platform,
		Version:       info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		Architecture:  info.KernelArch,
		Class:         Classify(info.OS, info.Platform),
	}, nil
}

// Classify maps an OS name and distribution to a Class.
func Classify(os, distro string) Class {
	switch strings.ToLower(os) {
	case "linux":
		if strings.EqualFold(distro, string(Ubuntu)) {
			return Ubuntu
		}
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	case "freebsd":
		return FreeBSD
	}
	return Unknown
}

// ParseClass converts a token into a Class. Unrecognised tokens yield Unknown.
func ParseClass(token string) Class {
	if c, ok := knownClasses[strings.ToLower(strings.TrimSpace(token))]; ok {
		return c
	}
	return Unknown
}

// IsLinux reports whether the class is a Linux system, whatever the distribution.
func (c Class) IsLinux() bool {
	return c == Linux || c == Ubuntu
}

func (c Class) String() string {
	return string(c)
}

// Platform returns a single string identifying the platform, e.g.
// "Linux-6.8.0-45-generic-x86_64-with-ubuntu-24.04".
func (i Info) Platform() string {
	parts := []string{}
	if i.OS != "" {
		parts = append(parts, cases.Title(language.Und).String(i.OS))
	}
	if i.KernelVersion != "" {
		parts = append(parts, i.KernelVersion)
	}
	if i.Architecture != "" {
		parts = append(parts, i.Architecture)
	}
	s := strings.Join(parts, "-")
	if i.Distro != "" {
		s += "-with-" + i.Distro
		if i.Version != "" {
			s += "-" + i.Version
		}
	}
	return s
}

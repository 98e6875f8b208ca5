// Package viewer derives viewer-environment dimensions for the session
// init metadata: which OS family and device the playback runs on.
package viewer

import (
	"log"

	"github.com/shirou/gopsutil/v3/host"
)

// Metadata returns the viewer environment dimensions this host can
// determine. Fields that cannot be read are simply absent; an unreadable
// host never blocks session start.
func Metadata() map[string]string {
	md := make(map[string]string)

	info, err := host.Info()
	if err != nil {
		log.Printf("[viewer] host info unavailable: %v", err)
		return md
	}
	if info.Platform != "" {
		md["viewer_os_family"] = info.Platform
	}
	if info.PlatformVersion != "" {
		md["viewer_os_version"] = info.PlatformVersion
	}
	if info.Hostname != "" {
		md["viewer_device_name"] = info.Hostname
	}
	if info.OS != "" {
		md["viewer_device_category"] = info.OS
	}
	return md
}

//go:build !windows
// +build !windows

package filesystem

// defaultExclusions lists kernel, device and system metadata areas (Unix)
var defaultExclusions = []string{
	"/proc/",
	"/sys/",
	"/dev/",
	"/run/",
	"/var/run/",
	"/var/lib/docker/",
	"/snap/",
	"/lost+found/",
	"/System/Volumes/",
	"/private/var/vm/",
	"/.Spotlight-V100/",
	"/.fseventsd/",
	"/.Trashes/",
}

// SystemRoots returns the roots of a system-wide scan (Unix: the filesystem root)
func SystemRoots() ([]string, error) {
	return []string{"/"}, nil
}

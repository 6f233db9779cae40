//go:build windows
// +build windows

package filesystem

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// defaultExclusions lists OS-reserved and system metadata areas (Windows).
// Matching is case-insensitive on Windows.
var defaultExclusions = []string{
	`\windows\`,
	`\$recycle.bin\`,
	`\system volume information\`,
	`\recovery\`,
	`\config.msi\`,
	`\programdata\microsoft\`,
	`\documents and settings\`,
	`\pagefile.sys\`,
	`\hiberfil.sys\`,
	`\swapfile.sys\`,
}

// SystemRoots returns one root per fixed drive, in drive-letter order (Windows)
func SystemRoots() ([]string, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate drives: %w", err)
	}

	var roots []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := string(rune('A'+i)) + `:\`
		ptr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}
		if windows.GetDriveType(ptr) == windows.DRIVE_FIXED {
			roots = append(roots, root)
		}
	}

	if len(roots) == 0 {
		return nil, fmt.Errorf("no fixed drives found")
	}
	return roots, nil
}

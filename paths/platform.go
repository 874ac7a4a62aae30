package paths

import (
	"fmt"
	"runtime"
)

// Platform names a supported operating system. The values match the names
// reported by Python's platform.system(), which is what Meco stores in
// request contexts and package manifests.
type Platform string

const (
	Linux   Platform = "Linux"
	Darwin  Platform = "Darwin"
	Windows Platform = "Windows"
)

// Platforms lists every supported platform.
func Platforms() []Platform {
	return []Platform{Linux, Darwin, Windows}
}

// ParsePlatform converts a platform name into a Platform.
func ParsePlatform(name string) (Platform, error) {
	p := Platform(name)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// CurrentPlatform returns the platform the binary is running on.
func CurrentPlatform() (Platform, error) {
	switch runtime.GOOS {
	case "linux":
		return Linux, nil
	case "darwin":
		return Darwin, nil
	case "windows":
		return Windows, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}

// Validate reports whether p is one of the supported platforms.
func (p Platform) Validate() error {
	switch p {
	case Linux, Darwin, Windows:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, string(p))
}

// IsWindows reports whether p is Windows.
func (p Platform) IsWindows() bool {
	return p == Windows
}

// ScriptExtension is the extension of environment scripts generated for p.
func (p Platform) ScriptExtension() string {
	if p.IsWindows() {
		return "ps1"
	}
	return "sh"
}

func (p Platform) String() string {
	return string(p)
}

package appfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/mattn/go-runewidth"

	"github.com/meco-pipeline/mecosettings/fileutil"
	"github.com/meco-pipeline/mecosettings/paths"
)

const (
	// Extension is the file extension of every app descriptor.
	Extension = "json"

	detailLabelWidth = 18
)

// Descriptor keys as they appear on disk.
const (
	KeyDeveloper          = "developer"
	KeyDescription        = "description"
	KeyDarwinExecutable   = "darwinExecutable"
	KeyLinuxExecutable    = "linuxExecutable"
	KeyWindowsExecutable  = "windowsExecutable"
	KeyGlobalEnvClassName = "globalEnvClassName"
	KeyApplication        = "application"
	KeyFolderName         = "folderName"
	KeyVersion            = "version"
	KeyPackages           = "packages"
)

// codec writes keys in struct order, keeps '<', '>' and '&' readable in
// executables, and rejects keys it does not know.
var codec = sonic.Config{
	EscapeHTML:            false,
	DisallowUnknownFields: true,
}.Froze()

// Descriptor is a Meco app descriptor. Field order is the on-disk key order.
type Descriptor struct {
	Developer          string   `json:"developer"`
	Description        string   `json:"description"`
	DarwinExecutable   string   `json:"darwinExecutable"`
	LinuxExecutable    string   `json:"linuxExecutable"`
	WindowsExecutable  string   `json:"windowsExecutable"`
	GlobalEnvClassName string   `json:"globalEnvClassName"`
	Application        string   `json:"application"`
	FolderName         string   `json:"folderName"`
	Version            string   `json:"version"`
	Packages           []string `json:"packages"`

	file string
}

// Load reads the descriptor stored at path. The .json extension is appended
// when path does not carry it.
func Load(path string) (*Descriptor, error) {
	d := &Descriptor{}
	if err := d.Bind(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Bind attaches the descriptor to an existing file and reads it.
func (d *Descriptor) Bind(path string) error {
	path = withExtension(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to bind app file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to bind app file: %s is a directory", path)
	}
	d.file = path
	return d.Read()
}

// File returns the path the descriptor is bound to, or an empty string.
func (d *Descriptor) File() string {
	return d.file
}

// Name returns the base name of the bound file without its extension.
func (d *Descriptor) Name() string {
	if d.file == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(d.file), "."+Extension)
}

// IsValid reports whether the descriptor is bound to a file and names both a
// developer and a description.
func (d *Descriptor) IsValid() bool {
	return d.file != "" && d.Developer != "" && d.Description != ""
}

// Read replaces every field with the content of the bound file.
func (d *Descriptor) Read() error {
	if d.file == "" {
		return ErrNotBound
	}
	data, err := os.ReadFile(d.file)
	if err != nil {
		return fmt.Errorf("failed to read app file: %w", err)
	}
	decoded, err := decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", d.file, err)
	}
	decoded.file = d.file
	*d = *decoded
	return nil
}

// Write persists the current field values to the bound file.
func (d *Descriptor) Write() error {
	if d.file == "" {
		return ErrNotBound
	}
	data, err := d.encode()
	if err != nil {
		return err
	}
	return fileutil.AtomicWrite(d.file, data, 0644)
}

// Executable returns the launch command of the app on platform.
func (d *Descriptor) Executable(platform paths.Platform) string {
	switch platform {
	case paths.Darwin:
		return d.DarwinExecutable
	case paths.Windows:
		return d.WindowsExecutable
	default:
		return d.LinuxExecutable
	}
}

// Matches reports whether keyword is a substring of any descriptive field or
// the exact name of one of the required packages.
func (d *Descriptor) Matches(keyword string) bool {
	for _, field := range []string{
		d.Developer,
		d.Description,
		d.GlobalEnvClassName,
		d.Application,
		d.FolderName,
		d.Version,
	} {
		if strings.Contains(field, keyword) {
			return true
		}
	}
	for _, pkg := range d.Packages {
		if pkg == keyword {
			return true
		}
	}
	return false
}

// Content returns the descriptor as the flat mapping stored on disk.
func (d *Descriptor) Content() map[string]any {
	return map[string]any{
		KeyDeveloper:          d.Developer,
		KeyDescription:        d.Description,
		KeyDarwinExecutable:   d.DarwinExecutable,
		KeyLinuxExecutable:    d.LinuxExecutable,
		KeyWindowsExecutable:  d.WindowsExecutable,
		KeyGlobalEnvClassName: d.GlobalEnvClassName,
		KeyApplication:        d.Application,
		KeyFolderName:         d.FolderName,
		KeyVersion:            d.Version,
		KeyPackages:           d.packages(),
	}
}

// SetContent replaces every field from a flat mapping. Keys missing from
// content are reset. Unknown keys, non-string values and a packages value
// that is not a list of strings are rejected with ErrMalformedData, leaving
// the descriptor untouched.
func (d *Descriptor) SetContent(content map[string]any) error {
	next := Descriptor{file: d.file, Packages: []string{}}
	strs := map[string]*string{
		KeyDeveloper:          &next.Developer,
		KeyDescription:        &next.Description,
		KeyDarwinExecutable:   &next.DarwinExecutable,
		KeyLinuxExecutable:    &next.LinuxExecutable,
		KeyWindowsExecutable:  &next.WindowsExecutable,
		KeyGlobalEnvClassName: &next.GlobalEnvClassName,
		KeyApplication:        &next.Application,
		KeyFolderName:         &next.FolderName,
		KeyVersion:            &next.Version,
	}

	for key, value := range content {
		if key == KeyPackages {
			pkgs, err := stringList(value)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedData, key, err)
			}
			next.Packages = pkgs
			continue
		}
		field, ok := strs[key]
		if !ok {
			return fmt.Errorf("%w: unknown key %q", ErrMalformedData, key)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %T", ErrMalformedData, key, value)
		}
		*field = s
	}

	*d = next
	return nil
}

// Detail renders the descriptor as aligned "label : value" lines.
func (d *Descriptor) Detail() string {
	rows := [][2]string{
		{"Meco App File", d.file},
		{KeyDeveloper, d.Developer},
		{KeyDescription, d.Description},
		{KeyDarwinExecutable, d.DarwinExecutable},
		{KeyLinuxExecutable, d.LinuxExecutable},
		{KeyWindowsExecutable, d.WindowsExecutable},
		{KeyGlobalEnvClassName, d.GlobalEnvClassName},
		{KeyApplication, d.Application},
		{KeyFolderName, d.FolderName},
		{KeyVersion, d.Version},
		{KeyPackages, strings.Join(d.Packages, ",")},
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s : %s\n", runewidth.FillRight(row[0], detailLabelWidth), row[1])
	}
	return b.String()
}

func (d *Descriptor) packages() []string {
	if d.Packages == nil {
		return []string{}
	}
	return d.Packages
}

func (d *Descriptor) encode() ([]byte, error) {
	out := *d
	out.Packages = d.packages()
	data, err := codec.MarshalIndent(&out, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal app file: %w", err)
	}
	return append(data, '\n'), nil
}

func decode(data []byte) (*Descriptor, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, fmt.Errorf("%w: content must be a mapping", ErrMalformedData)
	}
	var d Descriptor
	if err := codec.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	d.Packages = d.packages()
	return &d, nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list items must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("must be a list of strings, got %T", value)
}

func withExtension(path string) string {
	if strings.HasSuffix(path, "."+Extension) {
		return path
	}
	return path + "." + Extension
}

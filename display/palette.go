// Package display holds the colours used when an environment is printed and
// the styles of the command line output.
//
// Colours are looked up by section and role in a single palette and rendered
// for a platform at output time: an ANSI 256 colour template on Linux and
// Darwin, a console colour name on Windows.
package display

import (
	"fmt"

	"github.com/meco-pipeline/mecosettings/paths"
)

// Role is what a coloured piece of text is.
type Role string

const (
	RolePackageVariable Role = "packageVariable"
	RolePackageValue    Role = "packageValue"
	RoleMultiVariable   Role = "multiVariable"
	RoleMultiValue      Role = "multiValue"
	RoleSingleVariable  Role = "singleVariable"
	RoleSingleValue     Role = "singleValue"
	RoleScript          Role = "script"
	RoleCommand         Role = "command"
	RoleColon           Role = "colon"
	RoleArrow           Role = "arrow"
)

// Section is the part of the environment output a role appears in.
type Section string

const (
	SectionPreBuild              Section = "pre-build"
	SectionReserved              Section = "reserved"
	SectionDevelopment           Section = "development"
	SectionStage                 Section = "stage"
	SectionProjectInternal       Section = "project-internal"
	SectionProjectExternal       Section = "project-external"
	SectionMasterProjectInternal Section = "master-project-internal"
	SectionMasterProjectExternal Section = "master-project-external"
	SectionPostBuild             Section = "post-build"
	SectionEnv                   Section = "env"
	SectionInfo                  Section = "info"
	SectionProductInfo           Section = "product-info"
)

// Color is one palette entry. ANSI is an index in the 256 colour table and
// Console one of the sixteen Windows console colour names.
type Color struct {
	ANSI    int
	Console string
}

var (
	blue     = Color{ANSI: 4, Console: "Blue"}
	cyan     = Color{ANSI: 27, Console: "DarkCyan"}
	magenta  = Color{ANSI: 219, Console: "Magenta"}
	red      = Color{ANSI: 9, Console: "Red"}
	yellow   = Color{ANSI: 11, Console: "Yellow"}
	darkGold = Color{ANSI: 3, Console: "DarkYellow"}
	green    = Color{ANSI: 46, Console: "Green"}
	darkLime = Color{ANSI: 47, Console: "DarkGreen"}

	headerDash = Color{ANSI: 7, Console: "DarkGray"}
	headerText = Color{ANSI: 15, Console: "Gray"}
)

var baseRoles = map[Role]Color{
	RoleMultiVariable:  blue,
	RoleMultiValue:     cyan,
	RoleSingleVariable: blue,
	RoleSingleValue:    cyan,
	RoleScript:         magenta,
	RoleCommand:        magenta,
	RoleColon:          blue,
	RoleArrow:          blue,
}

// tierAccent colours the package roles and the arrow of a section.
type tierAccent struct {
	variable Color
	value    Color
	arrow    Color
}

var accents = map[Section]tierAccent{
	SectionPreBuild:              {variable: red, value: red, arrow: blue},
	SectionReserved:              {variable: red, value: red, arrow: red},
	SectionDevelopment:           {variable: red, value: red, arrow: red},
	SectionStage:                 {variable: red, value: red, arrow: red},
	SectionProjectInternal:       {variable: yellow, value: darkGold, arrow: yellow},
	SectionProjectExternal:       {variable: yellow, value: darkGold, arrow: yellow},
	SectionMasterProjectInternal: {variable: green, value: darkLime, arrow: green},
	SectionMasterProjectExternal: {variable: green, value: darkLime, arrow: green},
	SectionPostBuild:             {variable: red, value: red, arrow: blue},
}

// infoRoles are the only roles of the info like sections.
var infoRoles = []Role{RoleColon, RoleSingleVariable, RoleSingleValue}

// Sections returns every section in output order.
func Sections() []Section {
	return []Section{
		SectionPreBuild,
		SectionReserved,
		SectionDevelopment,
		SectionStage,
		SectionProjectInternal,
		SectionProjectExternal,
		SectionMasterProjectInternal,
		SectionMasterProjectExternal,
		SectionPostBuild,
		SectionEnv,
		SectionInfo,
		SectionProductInfo,
	}
}

// Lookup returns the colour of role in section.
func Lookup(section Section, role Role) (Color, bool) {
	accent, tiered := accents[section]
	if !tiered {
		switch section {
		case SectionEnv, SectionInfo, SectionProductInfo:
			for _, r := range infoRoles {
				if r == role {
					return baseRoles[role], true
				}
			}
		}
		return Color{}, false
	}

	switch role {
	case RolePackageVariable:
		return accent.variable, true
	case RolePackageValue:
		return accent.value, true
	case RoleArrow:
		return accent.arrow, true
	}
	c, ok := baseRoles[role]
	return c, ok
}

// Render returns c as the environment printer of platform expects it: an
// escape sequence template with a {} placeholder on Linux and Darwin, a
// console colour name on Windows.
func (c Color) Render(platform paths.Platform) (string, error) {
	if err := platform.Validate(); err != nil {
		return "", err
	}
	if platform.IsWindows() {
		return c.Console, nil
	}
	return fmt.Sprintf(`\e[38;5;%dm{}\e[m`, c.ANSI), nil
}

// Table renders the whole palette for platform, keyed by section then role.
func Table(platform paths.Platform) (map[Section]map[Role]string, error) {
	if err := platform.Validate(); err != nil {
		return nil, err
	}
	allRoles := []Role{
		RolePackageVariable, RolePackageValue,
		RoleMultiVariable, RoleMultiValue,
		RoleSingleVariable, RoleSingleValue,
		RoleScript, RoleCommand,
		RoleColon, RoleArrow,
	}

	table := make(map[Section]map[Role]string)
	for _, section := range Sections() {
		roles := make(map[Role]string)
		for _, role := range allRoles {
			c, ok := Lookup(section, role)
			if !ok {
				continue
			}
			roles[role], _ = c.Render(platform)
		}
		table[section] = roles
	}
	return table, nil
}

// HeaderColors returns the colours of the header dashes and header text.
func HeaderColors(platform paths.Platform) ([]string, error) {
	if err := platform.Validate(); err != nil {
		return nil, err
	}
	if platform.IsWindows() {
		return []string{headerDash.Console, headerText.Console}, nil
	}
	return []string{
		fmt.Sprintf(`"\e[%dm{}\e[m"`, ansiForeground(headerDash.ANSI)),
		fmt.Sprintf(`"\e[%dm{}\e[m"`, ansiForeground(headerText.ANSI)),
	}, nil
}

// ansiForeground maps one of the sixteen standard colours to its SGR code.
func ansiForeground(index int) int {
	if index < 8 {
		return 30 + index
	}
	return 90 + index - 8
}

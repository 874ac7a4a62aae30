package env

import (
	"fmt"
	"strings"

	"github.com/meco-pipeline/mecosettings/paths"
)

var (
	bashEscaper       = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	powershellEscaper = strings.NewReplacer("`", "``", `"`, "`\"", `$`, "`$")
)

// Render returns the script body exporting the entries, in their current
// order, for the shell of platform: bash on Linux and Darwin, PowerShell on
// Windows. Values already wrapped in double quotes are written verbatim.
func (c *Container) Render(platform paths.Platform) (string, error) {
	if err := platform.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, e := range c.entries {
		var line string
		if platform.IsWindows() {
			line = powershellLine(e)
		} else {
			line = bashLine(e)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func bashLine(e Entry) string {
	switch e.Kind {
	case KindSingle:
		return fmt.Sprintf("export %s=%s", e.Name, quote(e.Value, bashEscaper))
	case KindMulti:
		return fmt.Sprintf(`export %s="%s${%s:+:$%s}"`, e.Name, bashEscaper.Replace(e.Value), e.Name, e.Name)
	case KindScript:
		return fmt.Sprintf(`source "%s"`, bashEscaper.Replace(e.Value))
	}
	return e.Value
}

func powershellLine(e Entry) string {
	switch e.Kind {
	case KindSingle:
		return fmt.Sprintf("$env:%s = %s", e.Name, quote(e.Value, powershellEscaper))
	case KindMulti:
		return fmt.Sprintf(`$env:%s = "%s;" + $env:%s`, e.Name, powershellEscaper.Replace(e.Value), e.Name)
	case KindScript:
		return fmt.Sprintf(`. "%s"`, powershellEscaper.Replace(e.Value))
	}
	return e.Value
}

func quote(value string, escaper *strings.Replacer) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value
	}
	return `"` + escaper.Replace(value) + `"`
}

package terminal

import (
	"os"
	"strings"
)

type Capabilities struct {
	SupportsRGB bool
	TermProgram string
}

// DetectCapabilities looks at the environment only; no terminal queries.
// ACCENTS_TRUECOLOR forces truecolor on or off.
func DetectCapabilities() *Capabilities {
	return detect(os.Getenv)
}

func detect(getenv func(string) string) *Capabilities {
	caps := &Capabilities{
		TermProgram: getenv("TERM_PROGRAM"),
	}

	colorTerm := strings.ToLower(getenv("COLORTERM"))
	caps.SupportsRGB = colorTerm == "truecolor" || colorTerm == "24bit" ||
		strings.Contains(getenv("TERM"), "direct") || caps.TermProgram != ""

	switch strings.ToLower(getenv("ACCENTS_TRUECOLOR")) {
	case "1", "true", "yes", "on":
		caps.SupportsRGB = true
	case "0", "false", "no", "off":
		caps.SupportsRGB = false
	}

	return caps
}

// Reset restores the cursor and leaves the alternate screen, for use after
// a crash inside the preview.
func Reset() {
	os.Stdout.WriteString("\033[?25h")
	os.Stdout.WriteString("\033[0m")
	os.Stdout.WriteString("\033[?1049l")
	os.Stdout.Sync()
}

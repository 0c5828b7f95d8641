package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// CSSFile keeps the custom properties in a stylesheet on disk. Each write
// rewrites the whole file.
type CSSFile struct {
	path string

	mu    sync.Mutex
	props map[Scope]map[string]string
}

func NewCSSFile(path string) *CSSFile {
	return &CSSFile{
		path:  path,
		props: make(map[Scope]map[string]string),
	}
}

func (c *CSSFile) Path() string {
	return c.path
}

func (c *CSSFile) SetProperty(scope Scope, name string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.props[scope] == nil {
		c.props[scope] = make(map[string]string)
	}
	c.props[scope][name] = value

	return c.flush()
}

// Render returns the stylesheet as it would be written.
func (c *CSSFile) Render() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render()
}

func (c *CSSFile) render() string {
	var b strings.Builder

	for _, scope := range []Scope{ScopeRoot, ScopeBody} {
		props := c.props[scope]
		if len(props) == 0 {
			continue
		}

		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s {\n", scope)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s;\n", name, props[name])
		}
		b.WriteString("}\n")
	}

	return b.String()
}

func (c *CSSFile) flush() error {
	err := os.MkdirAll(filepath.Dir(c.path), 0755)
	if err != nil {
		return fmt.Errorf("failed to create stylesheet dir: %w", err)
	}

	tmpPath := c.path + ".tmp"
	err = os.WriteFile(tmpPath, []byte(c.render()), 0644)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}

	return os.Rename(tmpPath, c.path)
}

// Package banner loads the ANSI/ASCII art shown at connect time and on
// the banner command. Files carry {{key}} placeholders substituted at
// render time.
package banner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a loaded display file.
type File struct {
	Name   string
	Path   string
	IsANSI bool
	Data   []byte
}

// Loader finds display files across a list of directories.
type Loader struct {
	baseDirs []string
}

// NewLoader creates a loader searching the given directories in order.
func NewLoader(dirs ...string) *Loader {
	return &Loader{baseDirs: dirs}
}

// Find locates a display file by bare name, preferring .ans when ANSI
// is enabled and .asc otherwise.
func (l *Loader) Find(name string, ansiEnabled bool) (*File, error) {
	safeName, err := sanitizeName(name)
	if err != nil {
		return nil, err
	}

	extensions := []string{".ans", ".asc"}
	if !ansiEnabled {
		extensions = []string{".asc", ".ans"}
	}

	for _, dir := range l.baseDirs {
		for _, ext := range extensions {
			path := filepath.Join(dir, safeName+ext)
			if !within(dir, path) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			return &File{
				Name:   safeName,
				Path:   path,
				IsANSI: strings.EqualFold(ext, ".ans"),
				Data:   data,
			}, nil
		}
	}
	return nil, fmt.Errorf("display file not found: %s", safeName)
}

func sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty display name")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid display name: %s", name)
	}
	return name, nil
}

func within(baseDir, path string) bool {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return absPath == absBase || strings.HasPrefix(absPath, absBase+string(filepath.Separator))
}

// Render substitutes {{key}} placeholders from vars. Unknown keys are
// replaced with nothing rather than left visible.
func Render(data []byte, vars map[string]string) string {
	s := string(data)
	var b strings.Builder
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.Index(s[start+2:], "}}")
		if end < 0 {
			b.WriteString(s)
			break
		}
		key := strings.TrimSpace(s[start+2 : start+2+end])
		b.WriteString(s[:start])
		b.WriteString(vars[key])
		s = s[start+2+end+2:]
	}
	return b.String()
}

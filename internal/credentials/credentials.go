// Package credentials locates API tokens: command-line flag first, then an
// environment variable, then the first existing token file.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MissingTokenError is returned when no source provides a token.
type MissingTokenError struct {
	Name   string
	EnvVar string
	Paths  []string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("missing token for %s (set --%s-token, $%s, or one of %s)",
		e.Name, strings.ToLower(e.Name), e.EnvVar, strings.Join(e.Paths, ", "))
}

// Lookup describes where a token may come from.
type Lookup struct {
	Name   string
	Flag   string
	EnvVar string
	Paths  []string
}

// NotionLookup returns the lookup for a Notion integration token.
func NotionLookup(flag string) Lookup {
	return Lookup{
		Name:   "Notion",
		Flag:   flag,
		EnvVar: "NOTION_TOKEN",
		Paths:  []string{"~/.notiontoken", "./.notiontoken"},
	}
}

// GitHubLookup returns the lookup for a GitHub personal access token.
func GitHubLookup(flag string) Lookup {
	return Lookup{
		Name:   "GitHub",
		Flag:   flag,
		EnvVar: "GITHUB_TOKEN",
		Paths:  []string{"~/.githubtoken"},
	}
}

// Resolve returns the first token found.
func (l Lookup) Resolve() (string, error) {
	if l.Flag != "" {
		return l.Flag, nil
	}
	if l.EnvVar != "" {
		if tok, ok := os.LookupEnv(l.EnvVar); ok && tok != "" {
			return tok, nil
		}
	}

	for _, p := range l.Paths {
		path, err := expandHome(p)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read %s token file %s: %w", l.Name, path, err)
		}
		if tok := strings.TrimRight(string(data), "\r\n"); tok != "" {
			return tok, nil
		}
	}

	return "", &MissingTokenError{Name: l.Name, EnvVar: l.EnvVar, Paths: l.Paths}
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

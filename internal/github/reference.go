package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Reference points at one issue or pull request.
type Reference struct {
	Owner  string
	Repo   string
	Number int
}

// Repository returns "owner/repo".
func (r Reference) Repository() string {
	return r.Owner + "/" + r.Repo
}

func (r Reference) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var (
	shortRef = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
	urlRef   = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+)/(?:issues|pull)/(\d+)/?(?:[?#].*)?$`)
)

// ParseReference accepts "owner/repo#N" and issue or pull request URLs.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	m := shortRef.FindStringSubmatch(s)
	if m == nil {
		m = urlRef.FindStringSubmatch(s)
	}
	if m == nil {
		return Reference{}, fmt.Errorf("not an issue or pull request reference: %q", s)
	}

	n, err := strconv.Atoi(m[3])
	if err != nil || n <= 0 {
		return Reference{}, fmt.Errorf("invalid issue number in %q", s)
	}
	return Reference{Owner: m[1], Repo: m[2], Number: n}, nil
}

// SplitRepo splits "owner/repo".
func SplitRepo(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository must be owner/name: %q", s)
	}
	return owner, repo, nil
}

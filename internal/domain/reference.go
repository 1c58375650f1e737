package domain

import (
	"regexp"
	"strings"
)

// InvalidReferenceMessage is shown to users whose input does not look like a repository URL.
const InvalidReferenceMessage = "Invalid GitHub repository URL. Expected https://github.com/<owner>/<repo>"

var referencePattern = regexp.MustCompile(`^https://github\.com/([A-Za-z0-9._-]+)/([A-Za-z0-9._-]+)/?(?:#.*)?$`)

// ParseReference validates raw user input and decomposes it into owner and name.
// It performs no I/O.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, &Error{
			Code:    CodeMissingRepoURL,
			Kind:    KindInput,
			Message: "Missing repoUrl",
		}
	}

	m := referencePattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, invalidReference()
	}

	// Clone URLs are pasted often enough to accept them.
	name := strings.TrimSuffix(m[2], ".git")
	if name == "" || isDots(m[1]) || isDots(name) {
		return Reference{}, invalidReference()
	}
	return Reference{Owner: m[1], Name: name}, nil
}

func invalidReference() *Error {
	return &Error{
		Code:    CodeInvalidRepoURL,
		Kind:    KindInput,
		Message: InvalidReferenceMessage,
	}
}

// isDots reports whether s is a path traversal segment.
func isDots(s string) bool {
	return s == "." || s == ".."
}

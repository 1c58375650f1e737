package gateway

import (
	"github.com/google/go-github/v62/github"
	"github.com/loookla/readme-generator-parth/internal/domain"
)

// MaxTreeEntries caps the path tree kept in the metadata. The tree feeds
// both the rendered document and the generation prompt.
const MaxTreeEntries = 500

// repoInfo is the backend-neutral result of the repository info call.
type repoInfo struct {
	name          string
	description   string
	homepage      string
	licenseID     string
	licenseName   string
	defaultBranch string
	topics        []string
}

// license prefers the machine-readable identifier over the display name.
func (i repoInfo) license() *string {
	if i.licenseID != "" {
		return &i.licenseID
	}
	return domain.StringPtr(i.licenseName)
}

func newMetadata(ref domain.Reference, info repoInfo, languages, paths []string) *domain.Metadata {
	displayName := info.name
	if displayName == "" {
		displayName = ref.Name
	}
	return &domain.Metadata{
		Owner:         ref.Owner,
		Name:          ref.Name,
		DisplayName:   displayName,
		Description:   domain.StringPtr(info.description),
		Languages:     nonNil(languages),
		License:       info.license(),
		DefaultBranch: info.defaultBranch,
		Homepage:      domain.StringPtr(info.homepage),
		Topics:        nonNil(info.topics),
		PathTree:      nonNil(paths),
	}
}

// collectPaths keeps file and directory entries in provider order, up to limit.
func collectPaths(entries []*github.TreeEntry, limit int) []string {
	paths := make([]string, 0, min(len(entries), limit))
	for _, entry := range entries {
		if len(paths) == limit {
			break
		}
		switch entry.GetType() {
		case "blob", "tree":
			paths = append(paths, entry.GetPath())
		}
	}
	return paths
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

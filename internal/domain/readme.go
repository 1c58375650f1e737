// Package domain contains the core data structures and domain logic for the application.
package domain

// Reference identifies a repository on the hosting provider.
type Reference struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form of the reference.
func (r Reference) FullName() string {
	return r.Owner + "/" + r.Name
}

// Metadata is the canonical, provider-derived record describing a repository.
// It is created once per request by the gateway and treated as read-only afterward.
type Metadata struct {
	Owner         string   `json:"owner"`
	Name          string   `json:"name"`
	DisplayName   string   `json:"displayName"`
	Description   *string  `json:"description"`
	Languages     []string `json:"languages"`
	License       *string  `json:"license"`
	DefaultBranch string   `json:"defaultBranch"`
	Homepage      *string  `json:"homepage"`
	Topics        []string `json:"topics"`
	PathTree      []string `json:"pathTree"`
}

// NarrativeSections holds the free-text sections produced by the generative service.
// Every field is optional because the service may omit or malform any of them.
type NarrativeSections struct {
	Description  *string  `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	Installation *string  `json:"installation,omitempty"`
	Usage        *string  `json:"usage,omitempty"`
}

// Narrative section names, used as FilledFlags keys.
const (
	SectionDescription  = "description"
	SectionFeatures     = "features"
	SectionInstallation = "installation"
	SectionUsage        = "usage"
)

// FilledFlags records which narrative sections the generator populated.
type FilledFlags map[string]bool

// NonFatalError is a recorded failure that degrades the output but does not abort the request.
type NonFatalError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseEnvelope is the terminal artifact of one generate request.
type ResponseEnvelope struct {
	Document    string          `json:"document"`
	FileName    string          `json:"fileName"`
	Metadata    Metadata        `json:"metadata"`
	FilledFlags FilledFlags     `json:"filledFlags"`
	Errors      []NonFatalError `json:"errors,omitempty"`
}

// ErrorResponse is the body returned for a fatal failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/loookla/readme-generator-parth/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching repository metadata from GitHub.
type Fetcher interface {
	// FetchMetadata returns a complete metadata snapshot, or an error if any
	// upstream call failed. Partial metadata is never returned.
	FetchMetadata(ctx context.Context, ref domain.Reference) (*domain.Metadata, error)
}

// Options tunes the HTTP clients used by the gateways.
type Options struct {
	// BaseURL overrides the REST API root (GitHub Enterprise, tests).
	BaseURL string
	// GraphQLURL overrides the GraphQL endpoint.
	GraphQLURL string
	// WaitOnRateLimit sleeps through secondary rate limits instead of failing.
	WaitOnRateLimit bool
}

// GitHubGateway is the REST implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is bound to the client for the lifetime of the gateway.
func NewGitHubGateway(token string, opts Options, logger *log.Logger) (Fetcher, error) {
	httpClient, err := newHTTPClient(token, opts.WaitOnRateLimit)
	if err != nil {
		return nil, err
	}
	restClient, err := newRESTClient(httpClient, opts.BaseURL)
	if err != nil {
		return nil, err
	}
	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

func newHTTPClient(token string, waitOnRateLimit bool) (*http.Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if waitOnRateLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		base = rateLimitWaiter
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   base,
			Source: ts,
		},
	}, nil
}

func newRESTClient(httpClient *http.Client, baseURL string) (*github.Client, error) {
	client := github.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GitHub API URL %q: %w", baseURL, err)
	}
	client.BaseURL = u
	return client, nil
}

// FetchMetadata fetches repository info and the language breakdown concurrently,
// then the recursive tree of the default branch.
func (g *GitHubGateway) FetchMetadata(ctx context.Context, ref domain.Reference) (*domain.Metadata, error) {
	var info repoInfo
	var languages []string

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		info, err = g.fetchRepository(egCtx, ref)
		return err
	})

	eg.Go(func() error {
		var err error
		languages, err = fetchLanguages(egCtx, g.restClient, ref, g.logger)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// The tree call needs the default branch discovered above.
	paths, err := fetchTree(ctx, g.restClient, ref, info.defaultBranch, g.logger)
	if err != nil {
		return nil, err
	}
	return newMetadata(ref, info, languages, paths), nil
}

func (g *GitHubGateway) fetchRepository(ctx context.Context, ref domain.Reference) (repoInfo, error) {
	g.logger.Printf("[1/3] Fetching repository info for %s...", ref.FullName())
	repo, _, err := g.restClient.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return repoInfo{}, fmt.Errorf("failed to fetch repository: %w", upstreamError(err))
	}
	info := repoInfo{
		name:          repo.GetName(),
		description:   repo.GetDescription(),
		homepage:      repo.GetHomepage(),
		defaultBranch: repo.GetDefaultBranch(),
		topics:        repo.Topics,
	}
	if lic := repo.GetLicense(); lic != nil {
		info.licenseID = lic.GetSPDXID()
		info.licenseName = lic.GetName()
	}
	g.logger.Println("Completed fetching repository info.")
	return info, nil
}

// fetchLanguages returns the language names in the order GitHub lists them.
// Repositories.ListLanguages decodes into a map and loses that order, so the
// raw body is decoded token by token instead.
func fetchLanguages(ctx context.Context, client *github.Client, ref domain.Reference, logger *log.Logger) ([]string, error) {
	logger.Println("[2/3] Fetching language breakdown...")
	req, err := client.NewRequest(http.MethodGet, fmt.Sprintf("repos/%v/%v/languages", ref.Owner, ref.Name), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build languages request: %w", err)
	}
	var raw json.RawMessage
	if _, err := client.Do(ctx, req, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", upstreamError(err))
	}
	languages, err := orderedKeys(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	logger.Printf("Completed fetching %d languages.", len(languages))
	return languages, nil
}

func fetchTree(ctx context.Context, client *github.Client, ref domain.Reference, branch string, logger *log.Logger) ([]string, error) {
	if branch == "" {
		branch = "HEAD"
	}
	logger.Printf("[3/3] Fetching file tree of %s...", branch)
	tree, _, err := client.Git.GetTree(ctx, ref.Owner, ref.Name, branch, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree: %w", upstreamError(err))
	}
	paths := collectPaths(tree.Entries, MaxTreeEntries)
	if tree.GetTruncated() {
		logger.Println("  GitHub truncated the tree listing.")
	}
	logger.Printf("Completed fetching tree (%d of %d entries kept).", len(paths), len(tree.Entries))
	return paths, nil
}

// orderedKeys returns the keys of a JSON object in document order.
func orderedKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return []string{}, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	keys := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

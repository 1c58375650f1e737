package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"

	"github.com/loookla/readme-generator-parth/internal/domain"
)

// GraphQLGateway fetches repository info and languages in a single GraphQL
// query. GraphQL has no recursive tree listing, so the tree still goes through REST.
type GraphQLGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// repositoryQuery defines the GraphQL query for repository info and languages.
type repositoryQuery struct {
	Repository struct {
		Name        string
		Description string
		HomepageURL string `graphql:"homepageUrl"`
		LicenseInfo struct {
			SpdxID string `graphql:"spdxId"`
			Name   string
		}
		DefaultBranchRef struct {
			Name string
		}
		RepositoryTopics struct {
			Nodes []struct {
				Topic struct {
					Name string
				}
			}
		} `graphql:"repositoryTopics(first: 100)"`
		Languages struct {
			Edges []struct {
				Node struct {
					Name string
				}
			}
		} `graphql:"languages(first: 100, orderBy: {field: SIZE, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGraphQLGateway is a constructor that creates a new instance of GraphQLGateway.
func NewGraphQLGateway(token string, opts Options, logger *log.Logger) (Fetcher, error) {
	httpClient, err := newHTTPClient(token, opts.WaitOnRateLimit)
	if err != nil {
		return nil, err
	}
	restClient, err := newRESTClient(httpClient, opts.BaseURL)
	if err != nil {
		return nil, err
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}
	return &GraphQLGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// FetchMetadata runs the repository query, then the REST tree call for the default branch.
func (g *GraphQLGateway) FetchMetadata(ctx context.Context, ref domain.Reference) (*domain.Metadata, error) {
	g.logger.Printf("[1/2] Fetching repository info and languages for %s via GraphQL...", ref.FullName())
	variables := map[string]interface{}{
		"owner": githubv4.String(ref.Owner),
		"name":  githubv4.String(ref.Name),
	}
	var q repositoryQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for repository: %w", graphqlUpstreamError(err))
	}

	repo := q.Repository
	info := repoInfo{
		name:          repo.Name,
		description:   repo.Description,
		homepage:      repo.HomepageURL,
		licenseID:     repo.LicenseInfo.SpdxID,
		licenseName:   repo.LicenseInfo.Name,
		defaultBranch: repo.DefaultBranchRef.Name,
	}
	for _, node := range repo.RepositoryTopics.Nodes {
		info.topics = append(info.topics, node.Topic.Name)
	}
	languages := make([]string, 0, len(repo.Languages.Edges))
	for _, edge := range repo.Languages.Edges {
		languages = append(languages, edge.Node.Name)
	}
	g.logger.Println("Completed fetching repository info.")

	paths, err := fetchTree(ctx, g.restClient, ref, info.defaultBranch, g.logger)
	if err != nil {
		return nil, err
	}
	return newMetadata(ref, info, languages, paths), nil
}

var graphqlStatusPattern = regexp.MustCompile(`non-200 OK status code: (\d{3})`)

// graphqlUpstreamError recovers the HTTP status from the GraphQL client's
// error text. Errors reported inside a 200 response map to 502.
func graphqlUpstreamError(err error) error {
	status := http.StatusBadGateway
	if m := graphqlStatusPattern.FindStringSubmatch(err.Error()); m != nil {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil {
			status = code
		}
	}
	return &UpstreamError{Status: status, Body: err.Error(), Err: err}
}

package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectedRef  Reference
		expectedCode string
	}{
		{name: "plain url", raw: "https://github.com/acme/widget", expectedRef: Reference{Owner: "acme", Name: "widget"}},
		{name: "surrounding whitespace", raw: "  https://github.com/acme/widget \n", expectedRef: Reference{Owner: "acme", Name: "widget"}},
		{name: "trailing slash", raw: "https://github.com/acme/widget/", expectedRef: Reference{Owner: "acme", Name: "widget"}},
		{name: "fragment", raw: "https://github.com/acme/widget#readme", expectedRef: Reference{Owner: "acme", Name: "widget"}},
		{name: "dots underscores dashes", raw: "https://github.com/my-org_1/my.repo-name_2", expectedRef: Reference{Owner: "my-org_1", Name: "my.repo-name_2"}},
		{name: "clone url", raw: "https://github.com/acme/widget.git", expectedRef: Reference{Owner: "acme", Name: "widget"}},
		{name: "empty", raw: "", expectedCode: CodeMissingRepoURL},
		{name: "blank", raw: "   ", expectedCode: CodeMissingRepoURL},
		{name: "not a url", raw: "not-a-url", expectedCode: CodeInvalidRepoURL},
		{name: "http scheme", raw: "http://github.com/acme/widget", expectedCode: CodeInvalidRepoURL},
		{name: "other host", raw: "https://gitlab.com/acme/widget", expectedCode: CodeInvalidRepoURL},
		{name: "owner only", raw: "https://github.com/acme", expectedCode: CodeInvalidRepoURL},
		{name: "extra path", raw: "https://github.com/acme/widget/tree/main", expectedCode: CodeInvalidRepoURL},
		{name: "query string", raw: "https://github.com/acme/widget?tab=readme", expectedCode: CodeInvalidRepoURL},
		{name: "illegal characters", raw: "https://github.com/acme/wid get", expectedCode: CodeInvalidRepoURL},
		{name: "dot segment", raw: "https://github.com/acme/..", expectedCode: CodeInvalidRepoURL},
		{name: "bare git suffix", raw: "https://github.com/acme/.git", expectedCode: CodeInvalidRepoURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseReference(tc.raw)
			if tc.expectedCode != "" {
				require.Error(t, err)
				var de *Error
				require.True(t, errors.As(err, &de))
				assert.Equal(t, tc.expectedCode, de.Code)
				assert.Equal(t, KindInput, de.Kind)
				assert.Equal(t, Reference{}, ref)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedRef, ref)
		})
	}
}

func TestParseReference_InvalidMessage(t *testing.T) {
	_, err := ParseReference("not-a-url")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidReference))
	assert.Equal(t, "Invalid GitHub repository URL. Expected https://github.com/<owner>/<repo>", AsError(err).Message)
}

func TestReference_FullName(t *testing.T) {
	assert.Equal(t, "acme/widget", Reference{Owner: "acme", Name: "widget"}.FullName())
}

package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantOwner    string
		wantName     string
		wantProvider Provider
		wantErr      bool
	}{
		{
			name:         "github https",
			in:           "https://github.com/alice/myproject",
			wantOwner:    "alice",
			wantName:     "myproject",
			wantProvider: GitHub,
		},
		{
			name:         "github clone url",
			in:           "https://github.com/alice/myproject.git",
			wantOwner:    "alice",
			wantName:     "myproject",
			wantProvider: GitHub,
		},
		{
			name:         "www prefix",
			in:           "https://www.github.com/alice/myproject",
			wantOwner:    "alice",
			wantName:     "myproject",
			wantProvider: GitHub,
		},
		{
			name:         "scheme omitted",
			in:           "github.com/alice/myproject",
			wantOwner:    "alice",
			wantName:     "myproject",
			wantProvider: GitHub,
		},
		{
			name:         "gitlab nested group",
			in:           "https://gitlab.com/group/subgroup/project",
			wantOwner:    "group/subgroup",
			wantName:     "project",
			wantProvider: GitLab,
		},
		{name: "unsupported host", in: "https://bitbucket.org/alice/repo", wantErr: true},
		{name: "missing repo segment", in: "https://github.com/alice", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, provider, err := ParseRepoURL(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOwner, repo.Owner)
			assert.Equal(t, tc.wantName, repo.Name)
			assert.Equal(t, tc.wantProvider, provider)
		})
	}
}

func TestRepoFullName(t *testing.T) {
	r := Repo{Owner: "alice", Name: "proj"}
	assert.Equal(t, "alice/proj", r.FullName())
}

package gitrepo

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		matched bool
	}{
		{"https://github.com/user/repo", "https://github.com/user/repo", true},
		{"https://github.com/user/repo.git", "https://github.com/user/repo", true},
		{"https://github.com/user/repo/tree/main/pkg", "https://github.com/user/repo", true},
		{"http://github.com/user/repo", "https://github.com/user/repo", true},
		{"git@github.com:user/repo.git", "https://github.com/user/repo", true},
		{"git@github.com:user/repo", "https://github.com/user/repo", true},
		{"https://gitlab.com/user/repo", "https://gitlab.com/user/repo", false},
		{"not a url", "not a url", false},
	}

	for _, tc := range cases {
		got, matched := NormalizeURL(tc.in)
		if got != tc.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if matched != tc.matched {
			t.Errorf("NormalizeURL(%q) matched = %v, want %v", tc.in, matched, tc.matched)
		}
	}
}

func TestRepoName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://github.com/user/repo", "repo"},
		{"https://github.com/user/repo.git", "repo"},
		{"git@github.com:user/some-tool.git", "some-tool"},
		{"nonsense", "unknown-repo"},
	}

	for _, tc := range cases {
		if got := RepoName(tc.in); got != tc.want {
			t.Errorf("RepoName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package routes

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bundleless/internal/testutil"
)

var defaultPages = []string{"page.tsx", "page.js"}

func paths(rs []Route) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Path)
	}
	return out
}

func TestDiscover_RootAndNested(t *testing.T) {
	root := testutil.NewProject(t, testutil.Tree{
		"page.tsx":                "export default function Home() {}",
		"about/page.tsx":          "export default function About() {}",
		"blog/post/page.js":       "export default function Post() {}",
		"blog/post/extra/page.js": "export default function Extra() {}",
		"docs/readme.md":          "not a page",
	})

	got := NewDiscoverer(defaultPages, nil).Discover(root)

	assert.Equal(t, []string{"/", "/about", "/blog/post", "/blog/post/extra"}, paths(got))
	assert.Equal(t, filepath.Join(root, "page.tsx"), got[0].SourceFile)
	assert.Equal(t, root, got[0].SourceDir)
	assert.Equal(t, filepath.Join(root, "blog", "post", "page.js"), got[2].SourceFile)
	assert.Equal(t, filepath.Join(root, "blog", "post"), got[2].SourceDir)
}

func TestDiscover_CandidateOrder(t *testing.T) {
	root := testutil.NewProject(t, testutil.Tree{
		"about/page.tsx": "tsx",
		"about/page.js":  "js",
	})

	got := NewDiscoverer(defaultPages, nil).Discover(root)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "about", "page.tsx"), got[0].SourceFile)

	got = NewDiscoverer([]string{"page.js", "page.tsx"}, nil).Discover(root)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "about", "page.js"), got[0].SourceFile)
}

func TestDiscover_SkipsUnderscoreAndDotDirectories(t *testing.T) {
	root := testutil.NewProject(t, testutil.Tree{
		"_components/page.tsx":        "x",
		"_components/nested/page.tsx": "marker",
		".hidden/page.tsx":            "x",
		".hidden/deeper/page.tsx":     "marker",
		"visible/_private/page.tsx":   "x",
		"visible/page.tsx":            "x",
	})

	got := NewDiscoverer(defaultPages, nil).Discover(root)

	assert.Equal(t, []string{"/visible"}, paths(got))
}

func TestDiscover_RecursesThroughDirectoriesWithoutPages(t *testing.T) {
	root := testutil.NewProject(t, testutil.Tree{
		"a/b/c/page.tsx": "x",
	})

	assert.Equal(t, []string{"/a/b/c"}, paths(NewDiscoverer(defaultPages, nil).Discover(root)))
}

func TestDiscover_EmptyRoot(t *testing.T) {
	assert.Empty(t, NewDiscoverer(defaultPages, nil).Discover(t.TempDir()))
}

func TestDiscover_MissingRoot(t *testing.T) {
	assert.Empty(t, NewDiscoverer(defaultPages, nil).Discover(filepath.Join(t.TempDir(), "missing")))
}

func TestDiscover_DirectoryNamedLikePageIsIgnored(t *testing.T) {
	root := testutil.NewProject(t, testutil.Tree{
		"about/page.tsx/": "",
	})
	assert.Empty(t, NewDiscoverer(defaultPages, nil).Discover(root))
}

func TestDiscover_UnreadableSubtree(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := testutil.NewProject(t, testutil.Tree{
		"ok/page.tsx":           "x",
		"locked/inner/page.tsx": "x",
		"zzz/page.tsx":          "x",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := NewDiscoverer(defaultPages, nil).Discover(root)

	assert.Equal(t, []string{"/ok", "/zzz"}, paths(got))
}

func TestFlattenPath(t *testing.T) {
	tests := map[string]string{
		"/":          "index",
		"/about":     "about",
		"/blog/post": "blog-post",
		"/a-b":       "a-b",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FlattenPath(in))
			assert.Equal(t, want, Route{Path: in}.Name())
		})
	}
}

func TestSortByPath(t *testing.T) {
	in := []Route{{Path: "/z"}, {Path: "/"}, {Path: "/a/b"}, {Path: "/a"}}
	got := SortByPath(in)
	assert.Equal(t, []string{"/", "/a", "/a/b", "/z"}, paths(got))
	assert.Equal(t, "/z", in[0].Path)
}

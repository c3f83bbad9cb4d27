package selective

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldVisitBasic(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)
	assert.True(t, l.ShouldVisit("a/b.txt", false), "default should visit")
}

func TestLoadMissingFile(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.False(t, l.HasRules)
}

func TestIncludeExclude(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter_list")
	content := "# profile docs only\n/docs\n-*.tmp\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	l, err := Load(path)
	require.NoError(t, err)

	assert.True(t, l.ShouldVisit("docs", true))
	assert.True(t, l.ShouldVisit("docs/readme.md", false), "should include /docs")
	assert.False(t, l.ShouldVisit("docs/a.tmp", false), "should exclude *.tmp")
	assert.False(t, l.ShouldVisit("misc/readme.md", false), "outside /docs")
}

func TestAnchoredIncludeKeepsAncestorsOpen(t *testing.T) {
	l := FromYAML([]string{"/src/app"}, nil)

	assert.True(t, l.ShouldVisit("src", true))
	assert.True(t, l.ShouldVisit("src/app/main.go", false))
	assert.False(t, l.ShouldVisit("src/other", true))
	assert.False(t, l.ShouldVisit("src/notes.txt", false))
}

func TestExcludeAnywhere(t *testing.T) {
	l := FromYAML(nil, []string{".git", "node_modules/*"})

	assert.False(t, l.ShouldVisit(".git", true))
	assert.False(t, l.ShouldVisit("web/node_modules", true))
	assert.False(t, l.ShouldVisit("web/node_modules/x/index.js", false))
	assert.True(t, l.ShouldVisit("web/index.js", false))
}

func TestIncludeGlob(t *testing.T) {
	l := FromYAML([]string{"*.md"}, nil)

	assert.True(t, l.ShouldVisit("deep", true))
	assert.True(t, l.ShouldVisit("deep/notes.md", false))
	assert.False(t, l.ShouldVisit("deep/notes.txt", false))
}

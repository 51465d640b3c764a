package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenflow/core/internal/parser"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

const legacyProject = `{
	"projectName": "Legacy Flow",
	"nodes": [
		{"config": {"id": "login-1", "label": "Login", "type": "auth", "description": "", "uiOptions": [{"label": "User", "inputType": "Textbox", "isVisible": true, "value": ""}]}, "position": {"x": 0, "y": 0}},
		{"config": {"id": "dash-1", "label": "Dashboard", "type": "main", "description": "", "uiOptions": []}, "position": {"x": 300, "y": 0}}
	],
	"edges": [
		{"id": "e1", "source": "login-1", "target": "dash-1", "type": "directional"},
		{"id": "e2", "source": "dash-1", "target": "gone", "type": "dashed"}
	],
	"exportedAt": "2025-01-01T00:00:00.000Z",
	"version": "1.0"
}`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCatalogCommand(t *testing.T) {
	t.Run("lists everything", func(t *testing.T) {
		out, _, err := run(t, "catalog")

		require.NoError(t, err)
		assert.Contains(t, out, "login")
		assert.Contains(t, out, "errorpage")
		assert.Contains(t, out, "11 of 11 archetypes")
	})

	t.Run("filters", func(t *testing.T) {
		out, _, err := run(t, "catalog", "account", "--category", "auth")

		require.NoError(t, err)
		assert.Contains(t, out, "createaccount")
		assert.NotContains(t, out, "dashboard")
		assert.Contains(t, out, "1 of 11 archetypes")
	})

	t.Run("no match", func(t *testing.T) {
		out, _, err := run(t, "catalog", "zzz")

		require.NoError(t, err)
		assert.Contains(t, out, "No archetypes found.")
	})

	t.Run("long descriptions are cut by character", func(t *testing.T) {
		dir := t.TempDir()
		desc := strings.Repeat("é", 50)
		extra := "[[archetype]]\nid = \"accents\"\nlabel = \"Accents\"\ncategory = \"intl\"\ndescription = \"" + desc + "\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "intl.toml"), []byte(extra), 0o644))
		cfgPath := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("[catalog]\ndir = \""+dir+"\"\n"), 0o644))

		out, _, err := run(t, "catalog", "--config", cfgPath, "--category", "intl")

		require.NoError(t, err)
		assert.True(t, utf8.ValidString(out))
		assert.Contains(t, out, strings.Repeat("é", 42)+"...")
		assert.NotContains(t, out, strings.Repeat("é", 43))
	})
}

func TestValidateCommand(t *testing.T) {
	t.Run("reports warnings", func(t *testing.T) {
		out, _, err := run(t, "validate", writeProject(t, legacyProject))

		require.NoError(t, err)
		assert.Contains(t, out, "Legacy Flow")
		assert.Contains(t, out, "2 nodes, 2 edges")
		assert.Contains(t, out, "edge e2 points at a missing node")
		assert.Contains(t, out, "1 UI options have no id")
	})

	t.Run("invalid file fails", func(t *testing.T) {
		_, stderr, err := run(t, "validate", writeProject(t, `{"nodes": []}`))

		require.Error(t, err)
		assert.ErrorIs(t, err, parser.ErrMissingEdges)
		assert.Contains(t, stderr, "missing edges")
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, _, err := run(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("several files report in order", func(t *testing.T) {
		good := writeProject(t, legacyProject)
		bad := writeProject(t, `{"edges": []}`)

		out, stderr, err := run(t, "validate", good, bad, good, "-j", "2")

		require.Error(t, err)
		assert.ErrorIs(t, err, parser.ErrMissingNodes)
		assert.Equal(t, 2, strings.Count(out, "Legacy Flow"))
		assert.Contains(t, stderr, bad)
	})
}

func TestMigrateCommand(t *testing.T) {
	in := writeProject(t, legacyProject)
	outPath := filepath.Join(t.TempDir(), "migrated.json")

	out, _, err := run(t, "migrate", in, "-o", outPath)

	require.NoError(t, err)
	assert.Contains(t, out, "migrated 1 options")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	doc, err := parser.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "login-1-0", doc.Nodes[0].Config.UIOptions[0].ID)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", doc.ExportedAt)

	before, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, legacyProject, string(before))
}

func TestRenderCommand(t *testing.T) {
	t.Run("writes a png", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "flow.png")

		out, _, err := run(t, "render", writeProject(t, legacyProject), "-o", outPath, "--scale", "1")

		require.NoError(t, err)
		assert.Contains(t, out, "wrote "+outPath)
		f, err := os.Open(outPath)
		require.NoError(t, err)
		defer f.Close()
		_, err = png.Decode(f)
		assert.NoError(t, err)
	})

	t.Run("empty project fails", func(t *testing.T) {
		_, stderr, err := run(t, "render", writeProject(t, `{"nodes": [], "edges": []}`), "-o", filepath.Join(t.TempDir(), "x.png"))

		require.Error(t, err)
		assert.Contains(t, stderr, "nothing to export")
	})
}

func TestFilenameCommand(t *testing.T) {
	out, _, err := run(t, "filename", "My", "Project!")
	require.NoError(t, err)
	assert.Equal(t, "my_project_.json", strings.TrimSpace(out))

	out, _, err = run(t, "filename", "--ext", "png", "My Project")
	require.NoError(t, err)
	assert.Equal(t, "my_project2.png", strings.TrimSpace(out))
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{"config", "init"})

	require.NoError(t, root.Execute())
	_, err := os.Stat(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "screenflow", "config.toml"))
	assert.NoError(t, err)

	out, _, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `addr = ":8080"`)

	t.Run("honours --config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "alt.toml")
		require.NoError(t, os.WriteFile(path, []byte("[server]\naddr = \":9999\"\n"), 0o644))

		out, _, err := run(t, "config", "--config", path)

		require.NoError(t, err)
		assert.Contains(t, out, "# "+path)
		assert.Contains(t, out, `addr = ":9999"`)
	})

	t.Run("bad --config fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[server\n"), 0o644))

		_, stderr, err := run(t, "config", "--config", path)

		assert.Error(t, err)
		assert.Contains(t, stderr, "parse config")
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "httpdctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
modules: "ssl headers rewrite"
server_name: web
vhosts:
  peer: web-proxy/0
  payload: |
    - template: TGlzdGVuIDgwODA=
      port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ssl", "headers", "rewrite"}, cfg.ModuleNames())
	assert.Equal(t, "web", cfg.ServerName)
	assert.Equal(t, "apache2", cfg.UnitName())
	assert.Equal(t, "web-proxy/0", cfg.Vhosts.Peer)
	assert.Contains(t, cfg.Vhosts.Payload, "port: 8080")
}

func TestLoad_UnitOverride(t *testing.T) {
	path := writeConfig(t, "modules: \"ssl\"\nserver_name: web\nunit: httpd\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "httpd", cfg.UnitName())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "modules: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_VhostPayloadWithoutServerName(t *testing.T) {
	path := writeConfig(t, "modules: \"ssl\"\nvhosts:\n  payload: \"- port: 80\"\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestModuleNames_Whitespace(t *testing.T) {
	cfg := DesiredConfig{Modules: "  ssl\theaders  \n rewrite "}
	assert.Equal(t, []string{"ssl", "headers", "rewrite"}, cfg.ModuleNames())

	cfg = DesiredConfig{Modules: ""}
	assert.Empty(t, cfg.ModuleNames())
}

func TestStorage_SaveLoadDeleteList(t *testing.T) {
	ds := NewStorageWithPath(t.TempDir())

	require.NoError(t, ds.Save("state", "applied", []byte("ready: true")))

	data, err := ds.Load("state", "applied")
	require.NoError(t, err)
	assert.Equal(t, "ready: true", string(data))

	names, err := ds.List("state")
	require.NoError(t, err)
	assert.Equal(t, []string{"applied"}, names)

	require.NoError(t, ds.Delete("state", "applied"))

	_, err = ds.Load("state", "applied")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "state", notFound.EntityType)
}

func TestStorage_EmptyArgs(t *testing.T) {
	ds := NewStorageWithPath(t.TempDir())

	assert.Error(t, ds.Save("", "name", nil))
	assert.Error(t, ds.Save("state", "", nil))
	_, err := ds.Load("", "name")
	assert.Error(t, err)
	assert.Error(t, ds.Delete("state", ""))
}

func TestStorage_SanitizesNames(t *testing.T) {
	dir := t.TempDir()
	ds := NewStorageWithPath(dir)

	require.NoError(t, ds.Save("state", "../escape", []byte("x")))

	entries, err := os.ReadDir(filepath.Join(dir, "state"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "..")
}

func TestStorage_ListMissingDir(t *testing.T) {
	ds := NewStorageWithPath(t.TempDir())
	names, err := ds.List("state")
	require.NoError(t, err)
	assert.Empty(t, names)
}

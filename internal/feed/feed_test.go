package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeed(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func moduleNames(defs []Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ModuleName
	}
	return out
}

func TestDirProvider_YAMLList(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, "erp.yaml", `
- module_name: Sales
  color: "#1abc9c"
  icon: octicon octicon-tag
  type: module
- module_name: HR
  hidden: true
  doctype: Employee
  idx: 7
`)

	defs, ok, err := DirProvider{Dir: dir}.Load("erp")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Sales", "HR"}, moduleNames(defs))
	assert.Equal(t, "#1abc9c", defs[0].Color)
	assert.Nil(t, defs[0].Hidden)
	require.NotNil(t, defs[1].Hidden)
	assert.True(t, *defs[1].Hidden)
	assert.Equal(t, "Employee", defs[1].DocType)
	require.NotNil(t, defs[1].Idx)
	assert.Equal(t, 7, *defs[1].Idx)
}

func TestDirProvider_YAMLMappingKeepsDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, "crm.yml", `
Zeta:
  label: Last alphabetically
Alpha:
  force_show: true
Mid: {}
`)

	defs, ok, err := DirProvider{Dir: dir}.Load("crm")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, moduleNames(defs))
	require.NotNil(t, defs[1].ForceShow)
	assert.True(t, *defs[1].ForceShow)
}

func TestDirProvider_CUE(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, "stock.cue", `
icons: {
	Stock: {
		color: "#f39c12"
		reverse: true
	}
	Buying: {
		label: "Purchasing"
		idx: 3
	}
}
`)

	defs, ok, err := DirProvider{Dir: dir}.Load("stock")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Stock", "Buying"}, moduleNames(defs))
	require.NotNil(t, defs[0].Reverse)
	assert.True(t, *defs[0].Reverse)
	assert.Equal(t, "Purchasing", defs[1].Label)
}

func TestDirProvider_CUEList(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, "web.cue", `
icons: [
	{module_name: "Website", link: "List/Web Page"},
]
`)

	defs, ok, err := DirProvider{Dir: dir}.Load("web")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, defs, 1)
	assert.Equal(t, "List/Web Page", defs[0].Link)
}

func TestDirProvider_MissingFeedIsNotAnError(t *testing.T) {
	defs, ok, err := DirProvider{Dir: t.TempDir()}.Load("nothing")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, defs)

	_, ok, err = DirProvider{}.Load("nothing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDirProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown field", "a.yaml", "- module_name: A\n  colour: red\n"},
		{"scalar document", "a.yaml", "just a string\n"},
		{"missing module name", "a.yaml", "- label: Nameless\n"},
		{"duplicate module", "a.yaml", "- module_name: A\n- module_name: A\n"},
		{"cue without icons", "a.cue", "other: 1\n"},
		{"cue not concrete", "a.cue", "icons: [{module_name: string}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFeed(t, dir, tt.file, tt.content)
			_, _, err := DirProvider{Dir: dir}.Load("a")
			assert.Error(t, err)
		})
	}
}

func TestNormalize_NFCAndTrim(t *testing.T) {
	defs, err := Normalize([]Definition{{ModuleName: "  Cafe\u0301 ", Label: "Cafe\u0301"}})
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", defs[0].ModuleName)
	assert.Equal(t, "Caf\u00e9", defs[0].Label)
}

func TestStatic(t *testing.T) {
	p := Static{"erp": {{ModuleName: "Sales"}}}

	defs, ok, err := p.Load("erp")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, defs, 1)

	_, ok, err = p.Load("crm")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDirProvider_Apps(t *testing.T) {
	dir := t.TempDir()
	writeFeed(t, dir, "erp.yaml", "- module_name: Sales\n")
	writeFeed(t, dir, "crm.cue", "icons: []\n")
	writeFeed(t, dir, "erp.cue", "icons: []\n")
	writeFeed(t, dir, "README.md", "not a feed\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "hr.yaml"), 0755))

	apps, err := DirProvider{Dir: dir}.Apps()
	require.NoError(t, err)
	assert.Equal(t, []string{"crm", "erp"}, apps)

	apps, err = DirProvider{Dir: filepath.Join(dir, "missing")}.Apps()
	assert.NoError(t, err)
	assert.Empty(t, apps)
}

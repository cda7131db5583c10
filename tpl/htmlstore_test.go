package tpl

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaseTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/index.gohtml":        {Data: []byte(`<h1>{{.}}</h1>`)},
		"templates/partials/row.gohtml": {Data: []byte(`<td>{{.}}</td>`)},
		"templates/.draft/x.gohtml":     {Data: []byte(`{{`)},
		"templates/notes.txt":           {Data: []byte(`ignored`)},
	}
	s := NewHTMLTemplateStore()
	require.NoError(t, s.LoadBaseTemplates(fsys, "templates/"))
	assert.Len(t, s.Base, 2)
	assert.Contains(t, s.Base, "partials/row")

	var sb strings.Builder
	require.NoError(t, s.Render(&sb, "index", "<b>"))
	assert.Equal(t, "<h1>&lt;b&gt;</h1>", sb.String())
	assert.Error(t, s.Render(&sb, "missing", nil))
}

func TestLoadBaseTemplatesParseError(t *testing.T) {
	fsys := fstest.MapFS{"t/bad.gohtml": {Data: []byte(`{{ .Oops `)}}
	err := NewHTMLTemplateStore().LoadBaseTemplates(fsys, "t")
	assert.ErrorContains(t, err, "parse error in t/bad.gohtml")
}

func TestBuiltin(t *testing.T) {
	s, err := Builtin()
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, s.Render(&sb, "documents", map[string]any{
		"AppName": "ksdocs",
		"APIBase": "/api",
		"Types":   []map[string]string{{"Selector": "bill", "Label": "Bill"}},
	}))
	assert.Contains(t, sb.String(), `<option value="bill">Bill</option>`)
}

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatMarkdown, ParseFormat("md"))
	assert.Equal(t, FormatMarkdown, ParseFormat("markdown"))
	assert.Equal(t, FormatYAML, ParseFormat("yml"))
	assert.Equal(t, FormatTOON, ParseFormat("toon"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("anything-else"))
}

func sampleTable() *Table {
	return NewTable(
		"Callers",
		[]string{"Class", "Signature", "Lines"},
		[][]string{
			{"com.acme.Orders", "submit()", "12, 40"},
			{"com.acme.Billing", "charge(int)", "7"},
		},
		nil,
		nil,
	)
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable().RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Callers")
	assert.Contains(t, out, "com.acme.Orders")
	assert.Contains(t, out, "charge(int)")
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable().RenderMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "## Callers")
	assert.Contains(t, out, "| Class | Signature | Lines |")
	assert.Contains(t, out, "| --- | --- | --- |")
	assert.Contains(t, out, "| com.acme.Billing | charge(int) | 7 |")
}

func TestTableRenderDataFromRows(t *testing.T) {
	data := sampleTable().RenderData()
	rows, ok := data.([]map[string]string)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "submit()", rows[0]["Signature"])
}

func TestTableRenderDataPrefersStructured(t *testing.T) {
	structured := map[string]any{"edges": 3}
	table := NewTable("t", nil, nil, nil, structured)
	assert.Equal(t, structured, table.RenderData())
}

func TestSectionRenderText(t *testing.T) {
	s := &Section{
		Title:   "Cycles",
		Content: "1 cycle found",
		Sections: []Section{
			{Title: "Cycle 1", Content: "a -> b -> a"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, s.RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Cycles\n======")
	assert.Contains(t, out, "Cycle 1\n-------")
	assert.Contains(t, out, "a -> b -> a")
}

func TestSectionRenderMarkdownNesting(t *testing.T) {
	s := &Section{
		Title: "Cycles",
		Sections: []Section{
			{Title: "Cycle 1"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, s.RenderMarkdown(&buf))
	assert.Contains(t, buf.String(), "## Cycles")
	assert.Contains(t, buf.String(), "### Cycle 1")
}

func TestReportRender(t *testing.T) {
	r := &Report{
		Title: "Analysis",
		Sections: []Renderable{
			&Section{Title: "Summary", Content: "3 units"},
			sampleTable(),
		},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf, false))
	assert.Contains(t, buf.String(), "Analysis")
	assert.Contains(t, buf.String(), "3 units")
	assert.Contains(t, buf.String(), "com.acme.Orders")

	data, ok := r.RenderData().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Analysis", data["title"])
}

func outputTo(t *testing.T, format Format, data any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out")
	f, err := NewFormatter(format, path, true)
	require.NoError(t, err)
	require.NoError(t, f.Output(data))
	require.NoError(t, f.Close())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestFormatterJSON(t *testing.T) {
	out := outputTo(t, FormatJSON, sampleTable())

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "com.acme.Orders", rows[0]["Class"])
}

func TestFormatterYAML(t *testing.T) {
	out := outputTo(t, FormatYAML, map[string]any{"weight": 2, "kind": "CALL_DEP"})
	assert.Contains(t, out, "kind: CALL_DEP")
	assert.Contains(t, out, "weight: 2")
}

func TestFormatterTOON(t *testing.T) {
	out := outputTo(t, FormatTOON, map[string]any{"kind": "CALL_DEP"})
	assert.Contains(t, out, "CALL_DEP")
}

func TestFormatterMarkdownRawData(t *testing.T) {
	out := outputTo(t, FormatMarkdown, map[string]string{"k": "v"})
	assert.True(t, strings.HasPrefix(out, "```json"))
	assert.Contains(t, out, `"k": "v"`)
}

func TestFormatterFileOutputDisablesColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := NewFormatter(FormatText, path, true)
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, f.Colored())
}

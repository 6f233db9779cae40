package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/IvanShishkin/csr/pkg/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResults() []*models.ResultRecord {
	mod := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	return []*models.ResultRecord{
		{Path: "/data/a.txt", Size: 50, Modified: mod},
		{Path: "/data/archive/video.mp4", Size: 3 * 1024 * 1024 * 1024, Modified: mod},
	}
}

func render(t *testing.T, format string, results []*models.ResultRecord) string {
	t.Helper()
	var buf bytes.Buffer
	g, err := NewGenerator(format, &buf, nil)
	require.NoError(t, err)
	require.NoError(t, g.Generate(results))
	return buf.String()
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size     uint64
		expected string
	}{
		{0, "0.0B"},
		{50, "50.0B"},
		{1023, "1023.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{2000, "2.0KB"},
		{10 * 1024 * 1024, "10.0MB"},
		{3 * 1024 * 1024 * 1024, "3.0GB"},
		{5 * 1024 * 1024 * 1024 * 1024, "5.0TB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatSize(tt.size); got != tt.expected {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.expected)
			}
		})
	}
}

func TestNewGenerator_UnknownFormat(t *testing.T) {
	_, err := NewGenerator("xml", &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

func TestGenerate_List(t *testing.T) {
	out := render(t, "list", sampleResults())
	assert.Equal(t, "/data/a.txt\n/data/archive/video.mp4\n", out)
}

func TestGenerate_JSON(t *testing.T) {
	out := render(t, "json", sampleResults())

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "/data/a.txt", decoded[0]["path"])
	assert.Equal(t, float64(50), decoded[0]["size"])

	ts, ok := decoded[0]["modified"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(sampleResults()[0].Modified))

	assert.True(t, strings.HasPrefix(out, "[\n  {"), "JSON should be indented two spaces")
}

func TestGenerate_JSONEmpty(t *testing.T) {
	assert.Equal(t, "[]\n", render(t, "json", nil))
}

func TestGenerate_YAML(t *testing.T) {
	out := render(t, "yaml", sampleResults())

	var decoded []RecordView
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "/data/archive/video.mp4", decoded[1].Path)
	assert.Equal(t, uint64(3*1024*1024*1024), decoded[1].Size)
}

func TestGenerate_Table(t *testing.T) {
	color.NoColor = true
	out := render(t, "table", sampleResults())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// top border, header, separator, two rows, bottom border
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Path")
	assert.Contains(t, lines[1], "Modified")
	assert.Contains(t, lines[3], "50.0B")
	assert.Contains(t, lines[3], "2024-03-09 14:05:07")
	assert.Contains(t, lines[4], "3.0GB")

	// Columns line up
	width := runeWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, runeWidth(line), "line %q", line)
	}
}

func runeWidth(s string) int {
	return len([]rune(s))
}

func TestPrintAdvisory(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	PrintAdvisory(&buf, &models.Advisory{Kind: models.AdvisoryEntry, Path: "/x/locked", Message: "Cannot read directory"})
	PrintAdvisory(&buf, &models.Advisory{Kind: models.AdvisoryRoot, Path: "/gone", Message: "Cannot access root"})

	assert.Equal(t, "Warning: Cannot read directory: /x/locked\nError: Cannot access root: /gone\n", buf.String())
}

func TestPrintNoResults(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	PrintNoResults(&buf)
	assert.Equal(t, "No files found matching the criteria.\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500.00ms", FormatDuration(500*time.Millisecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5.00s", FormatDuration(125*time.Second))
}

package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md loads, and every .md file is listed in readme.md.
	file, err := os.Open("readme.md")
	require.NoError(t, err)
	defer file.Close()

	var topicsInReadme []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			_, err := GetTopic(topic)
			assert.NoError(t, err)
		})
	}

	files, err := filepath.Glob("*.md")
	require.NoError(t, err)
	for _, f := range files {
		if f == "readme.md" {
			continue
		}
		assert.Contains(t, topicsInReadme, strings.TrimSuffix(f, ".md"), "topic not listed in readme.md")
	}

	all, err := GetAllTopics()
	require.NoError(t, err)
	assert.ElementsMatch(t, topicsInReadme, all)
}

func TestGetTopic_All(t *testing.T) {
	all, err := GetTopic("*")
	require.NoError(t, err)
	assert.Contains(t, all, "# Numbers")
	assert.Contains(t, all, "# Dates")
	assert.NotContains(t, all, "Topics:")

	_, err = GetTopic("nope")
	assert.Error(t, err)
}

// tableRows returns the body rows of every table in a topic.
func tableRows(t *testing.T, topic string) [][]string {
	t.Helper()
	content, err := GetTopic(topic)
	require.NoError(t, err)
	src := []byte(content)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var rows [][]string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != east.KindTableRow {
			return ast.WalkContinue, nil
		}
		var row []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			var cell strings.Builder
			for x := c.FirstChild(); x != nil; x = x.NextSibling() {
				if s, ok := x.(*ast.Text); ok {
					cell.Write(s.Segment.Value(src))
				}
			}
			row = append(row, strings.TrimSpace(cell.String()))
		}
		rows = append(rows, row)
		return ast.WalkSkipChildren, nil
	})
	require.NotEmpty(t, rows, "topic %q has no examples", topic)
	return rows
}

// TestNumbersExamples checks the documented examples against the normalizer.
func TestNumbersExamples(t *testing.T) {
	for _, row := range tableRows(t, "numbers") {
		t.Run(row[0], func(t *testing.T) {
			assert.Equal(t, row[1], numeric.Normalize(row[0]))
		})
	}
}

// TestDatesExamples checks the documented examples against the date input.
func TestDatesExamples(t *testing.T) {
	today := date.New(2024, time.June, 1)
	for _, row := range tableRows(t, "dates") {
		t.Run(row[0], func(t *testing.T) {
			got, ok := date.ParseInputAsOf(row[0], today)
			if !ok {
				got, ok = date.ParseInputAsOf(date.Mask(row[0]), today)
			}
			require.True(t, ok)
			assert.Equal(t, row[1], got.StorageFormat())
		})
	}
}

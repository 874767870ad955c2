package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDataExtensions(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"results.csv", "panel.dta", "archive.zip", "dump.sql",
		"model.rds", "matrix.mat", "cache.pkl", "table.parquet",
		"survey.sav", "book.xlsx", "records.jsonl", "grid.nc",
	} {
		assert.Equal(t, KindData, ByName(name), "expected %s to be data", name)
	}
}

func TestClassifyDocumentExtensions(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"report.pdf", "readme.txt", "notes.md", "paper.tex",
		"refs.bib", "slides.pptx", "letter.docx", "build.log",
	} {
		assert.Equal(t, KindDocument, ByName(name), "expected %s to be document", name)
	}
}

func TestClassifyUnknownExtensionRetained(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"program.do", "script.R", "weird.xyz", "noextension"} {
		assert.Equal(t, KindDocument, ByName(name), "unknown %s must be retained", name)
		assert.False(t, IsKnown(name))
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindData, ByName("DATA.CSV"))
	assert.Equal(t, KindData, ByName("Panel.DTA"))
	assert.Equal(t, KindDocument, ByName("Report.PDF"))
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParagraphs(t *testing.T) {
	content := "First paragraph\nstill first.\n\nSecond paragraph.\n\n\n\n  Third, padded.  \n"

	paragraphs := splitParagraphs(content)
	assert.Equal(t, []string{
		"First paragraph\nstill first.",
		"Second paragraph.",
		"Third, padded.",
	}, paragraphs)
}

func TestSplitParagraphs_Empty(t *testing.T) {
	assert.Empty(t, splitParagraphs(""))
	assert.Empty(t, splitParagraphs("\n\n\n"))
}

func TestLoadKnowledgeBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_rates.txt"),
		[]byte("Interest rates rise.\n\nRates affect bonds."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_stocks.txt"),
		[]byte("Stocks fall today."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"),
		[]byte("ignored"), 0o644))

	chunks, err := loadKnowledgeBase(dir)
	require.NoError(t, err)

	// Files processed in name order, non-txt files skipped.
	assert.Equal(t, []string{
		"Stocks fall today.",
		"Interest rates rise.",
		"Rates affect bonds.",
	}, chunks)
}

func TestLoadKnowledgeBase_MissingDir(t *testing.T) {
	_, err := loadKnowledgeBase(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

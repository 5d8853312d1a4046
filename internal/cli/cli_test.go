// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/cli"
	"github.com/taibuivan/inkwell/internal/core/catalog"
	"github.com/taibuivan/inkwell/internal/core/report"
)

// workspace points the configuration at a fresh data directory.
func workspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("ACTIVE_REPORTS_PATH", filepath.Join(dir, "reports.json"))
	t.Setenv("ARCHIVE_REPORTS_PATH", filepath.Join(dir, "reports_archive.json"))
	t.Setenv("COMICS_PATH", filepath.Join(dir, "comics.json"))
	t.Setenv("CHAPTERS_PATH", filepath.Join(dir, "chapters.json"))
	t.Setenv("IMAGE_DIR", filepath.Join(dir, "comics"))
	t.Setenv("IMAGE_HD_DIR", filepath.Join(dir, "comics", "hd"))
	t.Setenv("PAGES_DIR", filepath.Join(dir, "pages"))
	t.Setenv("IDENTITY_SECRET", "pepper")
	t.Setenv("JWT_PUBLIC_KEY_PATH", filepath.Join(dir, "public.pem"))
	t.Setenv("JWT_PRIVATE_KEY_PATH", "")

	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := cli.NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)

	err := root.Execute()
	return out.String(), err
}

/*
TestCatalog_JSON checks that the catalog command prints the reconciled entries.
*/
func TestCatalog_JSON(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "comics.json"), `{
		"c2": {"kind": "comic", "title": "Second", "chapter": "1"},
		"c1": {"kind": "comic", "title": "First"}
	}`)
	writeFile(t, filepath.Join(dir, "comics", "c1.png"), "png")

	out, err := run(t, "catalog", "--json")
	require.NoError(t, err)

	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "c1", entries[0].ID)
	assert.True(t, entries[0].LowRes)
	assert.Equal(t, "c2", entries[1].ID)
	assert.Contains(t, entries[1].Missing, catalog.SourceImageAsset)
}

/*
TestCatalog_Table checks the human readable listing and its footer.
*/
func TestCatalog_Table(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "comics.json"), `{"c1": {"kind": "comic", "title": "First"}}`)

	out, err := run(t, "catalog", "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "First")
	assert.Contains(t, out, "page 1 of 1 (1 comics)")
}

/*
TestChapters_Sync checks that a sync persists placeholder chapters.
*/
func TestChapters_Sync(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "comics.json"), `{"c1": {"kind": "comic", "title": "First", "chapter": "2"}}`)
	writeFile(t, filepath.Join(dir, "chapters.json"), `{}`)

	out, err := run(t, "chapters")
	require.NoError(t, err)
	assert.Contains(t, out, `would add chapter "2"`)

	out, err = run(t, "chapters", "--sync")
	require.NoError(t, err)
	assert.Contains(t, out, `added chapter "2"`)

	raw, err := os.ReadFile(filepath.Join(dir, "chapters.json"))
	require.NoError(t, err)

	var records map[string]catalog.ChapterRecord
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.Contains(t, records, "2")
}

/*
TestReports_ListAndMove checks that an operator can close a report from the CLI.
*/
func TestReports_ListAndMove(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "reports.json"), `[{
		"id": "r1",
		"comicId": "c1",
		"createdAt": "2026-01-02T03:04:05Z",
		"status": "open",
		"submitterIpHash": "abc",
		"submitterName": "reader",
		"kind": "transcript",
		"description": "Typo in the second panel",
		"suggestedText": "",
		"originalText": ""
	}]`)

	out, err := run(t, "reports", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "Typo in the second panel")

	out, err = run(t, "reports", "move", "r1", "close")
	require.NoError(t, err)
	assert.Contains(t, out, "report r1 is now closed (archive collection)")

	out, err = run(t, "reports", "list", "--status", "closed", "--json")
	require.NoError(t, err)

	var views []report.View
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, report.StatusClosed, views[0].Status)
	assert.NotNil(t, views[0].UpdatedAt)
}

/*
TestReports_MoveRejected checks that invalid moves surface as errors.
*/
func TestReports_MoveRejected(t *testing.T) {
	workspace(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown action", []string{"reports", "move", "r1", "delete"}},
		{"unknown report", []string{"reports", "move", "r404", "close"}},
		{"missing argument", []string{"reports", "move", "r1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.args...)
			assert.Error(t, err)
		})
	}
}

/*
TestToken_Rejections checks the token command's argument guards.
*/
func TestToken_Rejections(t *testing.T) {
	workspace(t)

	_, err := run(t, "token", "--role", "root")
	assert.ErrorContains(t, err, "unknown role")

	_, err = run(t, "token")
	assert.ErrorContains(t, err, "JWT_PRIVATE_KEY_PATH")
}

/*
TestRoot_RequiresSecret checks that configuration errors stop every command.
*/
func TestRoot_RequiresSecret(t *testing.T) {
	workspace(t)
	t.Setenv("IDENTITY_SECRET", "")

	_, err := run(t, "catalog")
	assert.Error(t, err)
}

package packer

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.sammcclenaghan.com/mangafeed/downloader"
	"github.sammcclenaghan.com/mangafeed/grabber"
)

func testFiles() []*downloader.File {
	return []*downloader.File{
		{Data: []byte("page 1 data"), Page: 1, Ext: ".jpg"},
		{Data: []byte("page 2 data"), Page: 2, Ext: ".png"},
		{Data: []byte("page 3 data"), Page: 3},
	}
}

func readEntries(t *testing.T, filename string) map[string]string {
	t.Helper()

	reader, err := zip.OpenReader(filename)
	if err != nil {
		t.Fatalf("Failed to open CBZ file: %v", err)
	}
	defer reader.Close()

	entries := make(map[string]string)
	var order []string
	for _, zf := range reader.File {
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read %s: %v", zf.Name, err)
		}
		entries[zf.Name] = string(data)
		order = append(order, zf.Name)
	}
	entries["<order>"] = strings.Join(order, ",")
	return entries
}

func TestArchiveCBZ_Success(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.cbz")

	var progressCalls []int
	err := ArchiveCBZ(filename, testFiles(), nil, func(page, progress int) {
		progressCalls = append(progressCalls, progress)
	})
	if err != nil {
		t.Fatalf("ArchiveCBZ() error = %v", err)
	}

	entries := readEntries(t, filename)
	if got := entries["<order>"]; got != "001.jpg,002.png,003.jpg" {
		t.Errorf("entries = %s, want 001.jpg,002.png,003.jpg", got)
	}
	if got := entries["002.png"]; got != "page 2 data" {
		t.Errorf("002.png = %q", got)
	}
	if len(progressCalls) != 3 {
		t.Errorf("Expected 3 progress calls, got %d", len(progressCalls))
	}
}

func TestArchiveCBZ_WithComicInfo(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "dir", "one-piece")

	series := grabber.Series{
		URL:         "http://bato.to/comic_pop?id=123",
		Title:       "One Piece",
		Author:      "Alice",
		Artist:      "Bob",
		Description: "A boy & the sea.",
		Genre:       "Action, Drama",
	}
	chapter := grabber.Chapter{Name: "Vol.01 Ch.002: Second"}

	if err := ArchiveCBZ(filename, testFiles(), NewComicInfo(series, chapter, 3), nil); err != nil {
		t.Fatalf("ArchiveCBZ() error = %v", err)
	}

	entries := readEntries(t, filename+".cbz")
	raw, ok := entries["ComicInfo.xml"]
	if !ok {
		t.Fatal("ComicInfo.xml missing")
	}
	if !strings.HasPrefix(raw, "<?xml") {
		t.Errorf("ComicInfo.xml has no xml header: %q", raw[:20])
	}

	var info ComicInfo
	if err := xml.Unmarshal([]byte(raw), &info); err != nil {
		t.Fatalf("invalid ComicInfo.xml: %v", err)
	}
	if info.Series != "One Piece" || info.Writer != "Alice" || info.Penciller != "Bob" {
		t.Errorf("unexpected credits: %+v", info)
	}
	if info.Number != "2" || info.PageCount != 3 {
		t.Errorf("unexpected numbering: %+v", info)
	}
	if info.Summary != "A boy & the sea." || info.Web != series.URL {
		t.Errorf("unexpected summary or web: %+v", info)
	}
}

func TestArchiveCBZ_NoFiles(t *testing.T) {
	err := ArchiveCBZ(filepath.Join(t.TempDir(), "empty.cbz"), nil, nil, nil)
	if err == nil || err.Error() != "no files to pack" {
		t.Errorf("ArchiveCBZ() error = %v, want no files to pack", err)
	}
}

func TestArchiveCBZ_FileExists(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "exists.cbz")
	if err := os.WriteFile(filename, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := ArchiveCBZ(filename, testFiles(), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("ArchiveCBZ() error = %v, want already exists", err)
	}
}

func TestArchiveCBZ_RemovesPartialFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "partial.cbz")

	files := append(testFiles(), nil)
	err := ArchiveCBZ(filename, files, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "missing file at position 4") {
		t.Fatalf("ArchiveCBZ() error = %v, want missing file", err)
	}
	if _, statErr := os.Stat(filename); !os.IsNotExist(statErr) {
		t.Errorf("partial archive left on disk: %v", statErr)
	}

	// the next attempt is not blocked by the failed one
	if err := ArchiveCBZ(filename, testFiles(), nil, nil); err != nil {
		t.Errorf("ArchiveCBZ() retry error = %v", err)
	}
}

func TestGetCBZFilename(t *testing.T) {
	tests := []struct {
		name    string
		series  string
		chapter string
		want    string
	}{
		{"simple", "One Piece", "Vol.01 Ch.001: Romance Dawn", "One Piece - Vol.01 Ch.001_ Romance Dawn.cbz"},
		{"no chapter", "Berserk", "", "Berserk.cbz"},
		{"no series", "", "Ch.12", "Ch.12.cbz"},
		{"invalid characters", `Who/What? "Now"`, "Ch.1", "Who_What_ _Now_ - Ch.1.cbz"},
		{"full width letters", "ＯＮＥ ＰＩＥＣＥ", "", "ONE PIECE.cbz"},
		{"control characters", "Tab\tbed\x00", "", "Tabbed.cbz"},
		{"trailing dots", "Wait...", "", "Wait.cbz"},
		{"nothing left", "", "", "chapter.cbz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCBZFilename(tt.series, tt.chapter); got != tt.want {
				t.Errorf("GetCBZFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Length(t *testing.T) {
	long := strings.Repeat("漫", 150)
	got := sanitizeFilename(long)
	if len(got) > 200 {
		t.Errorf("sanitizeFilename() length = %d, want <= 200", len(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Error("sanitizeFilename() should cut on a rune boundary")
	}
}

package packer

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.sammcclenaghan.com/mangafeed/downloader"
	"github.sammcclenaghan.com/mangafeed/grabber"
)

// ProgressCallback is a function type for progress updates during packing
type ProgressCallback func(page, progress int)

// ComicInfo is the ComicRack metadata file stored at the root of a CBZ
type ComicInfo struct {
	XMLName   xml.Name `xml:"ComicInfo"`
	Series    string   `xml:"Series,omitempty"`
	Title     string   `xml:"Title,omitempty"`
	Number    string   `xml:"Number,omitempty"`
	Summary   string   `xml:"Summary,omitempty"`
	Writer    string   `xml:"Writer,omitempty"`
	Penciller string   `xml:"Penciller,omitempty"`
	Genre     string   `xml:"Genre,omitempty"`
	Web       string   `xml:"Web,omitempty"`
	PageCount int      `xml:"PageCount,omitempty"`
}

// NewComicInfo fills a ComicInfo from a series and one of its chapters
func NewComicInfo(series grabber.Series, chapter grabber.Chapter, pages int) *ComicInfo {
	info := &ComicInfo{
		Series:    series.Title,
		Title:     chapter.Name,
		Summary:   series.Description,
		Writer:    series.Author,
		Penciller: series.Artist,
		Genre:     series.Genre,
		Web:       series.URL,
		PageCount: pages,
	}
	if n := chapter.GetNumber(); n >= 0 {
		info.Number = formatNumber(n)
	}
	return info
}

// ArchiveCBZ archives the given files into a CBZ file, adding ComicInfo.xml
// when info is not nil
func ArchiveCBZ(filename string, files []*downloader.File, info *ComicInfo, progress ProgressCallback) (err error) {
	if len(files) == 0 {
		return errors.New("no files to pack")
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".cbz") {
		filename += ".cbz"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	buff, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("file %s already exists", filename)
		}
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	// failed archives are removed
	defer func() {
		if cerr := buff.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(filename)
		}
	}()

	w := zip.NewWriter(buff)

	for i, file := range files {
		if file == nil {
			return fmt.Errorf("missing file at position %d", i+1)
		}

		// page number, not index, keeps readers in order
		ext := file.Ext
		if ext == "" {
			ext = ".jpg"
		}
		name := fmt.Sprintf("%03d%s", file.Page, ext)

		f, err := w.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create entry %s: %w", name, err)
		}
		if _, err = f.Write(file.Data); err != nil {
			return fmt.Errorf("failed to write data for %s: %w", name, err)
		}

		if progress != nil {
			progress(1, i)
		}
	}

	if info != nil {
		f, err := w.Create("ComicInfo.xml")
		if err != nil {
			return fmt.Errorf("failed to create ComicInfo.xml: %w", err)
		}
		if _, err := f.Write([]byte(xml.Header)); err != nil {
			return fmt.Errorf("failed to write ComicInfo.xml: %w", err)
		}
		enc := xml.NewEncoder(f)
		enc.Indent("", "  ")
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("failed to encode ComicInfo.xml: %w", err)
		}
	}

	return w.Close()
}

// GetCBZFilename generates a standardized CBZ filename from the series title
// and chapter name
func GetCBZFilename(seriesTitle, chapterName string) string {
	var parts []string
	for _, part := range []string{seriesTitle, chapterName} {
		if part = sanitizeFilename(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "chapter.cbz"
	}
	return strings.Join(parts, " - ") + ".cbz"
}

// sanitizer folds compatibility characters (full-width letters, ligatures)
// and drops control characters
var sanitizer = transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cc)))

// sanitizeFilename removes or replaces characters that are invalid in filenames
func sanitizeFilename(filename string) string {
	result, _, err := transform.String(sanitizer, filename)
	if err != nil {
		result = filename
	}

	result = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, result)

	result = strings.TrimSpace(strings.TrimRight(result, " ."))

	// Limit length to avoid filesystem issues
	if len(result) > 200 {
		result = strings.ToValidUTF8(result[:200], "")
	}

	return result
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%.0f", n)
	}
	return fmt.Sprintf("%g", n)
}

package cart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/millesime/barrels/pkg/domain"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportFilename is the name the CSV export is delivered under.
const ExportFilename = "cart.csv"

// ErrUnsupportedFormat is returned by Export for formats other than csv and pdf.
var ErrUnsupportedFormat = errors.New("cart: unsupported export format")

var csvHeader = []string{"Name", "Origin Country", "Volume (L)", "Unit Price", "Quantity", "Total Price"}

// Downloader delivers an exported file to the user.
type Downloader interface {
	Download(filename string, content []byte) error
}

// DirDownloader writes exports into a directory.
type DirDownloader struct {
	Dir string
}

// Download writes content to Dir/filename, creating Dir if needed.
func (d DirDownloader) Download(filename string, content []byte) error {
	if d.Dir != "" {
		if err := os.MkdirAll(d.Dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(d.Path(filename), content, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Path returns where filename ends up.
func (d DirDownloader) Path(filename string) string {
	return filepath.Join(d.Dir, filename)
}

// encodeCSV renders items with every field quoted, one row per line.
func encodeCSV(items []domain.CartItem) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, it := range items {
		rows = append(rows, csvRow([]string{
			it.Name,
			it.OriginCountry,
			formatNumber(it.VolumeLiters),
			formatNumber(it.Price),
			strconv.Itoa(it.Quantity),
			formatNumber(it.LineTotal()),
		}))
	}
	return strings.Join(rows, "\n")
}

func csvRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package reports

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/raykov/mdtopdf"

	"git.sr.ht/~nullevoid/gridpoints/configuration"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

var sharedFuncMap = template.FuncMap{
	"add":   func(a, b int) int { return a + b },
	"trend": trendArrow,
}

// trendArrow renders a snapshot position delta for the markdown tables.
func trendArrow(delta int64) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("▲%d", delta)
	case delta < 0:
		return fmt.Sprintf("▼%d", -delta)
	default:
		return "–"
	}
}

// export renders buf into every format the [report] section asks for.
func export(fileName string, buf bytes.Buffer, rows [][]string, config *configuration.Config) error {
	switch config.Report.Format {
	case "markdown":
		return writeMarkdown(fileName, buf, config)
	case "csv":
		return writeCSV(fileName, rows, config)
	case "pdf":
		return writePDF(fileName, buf, config)
	case "all":
		if err := writeMarkdown(fileName, buf, config); err != nil {
			return err
		}
		if err := writeCSV(fileName, rows, config); err != nil {
			return err
		}
		return writePDF(fileName, buf, config)
	default:
		return fmt.Errorf("unsupported report format: %s", config.Report.Format)
	}
}

func writeMarkdown(fileName string, buf bytes.Buffer, config *configuration.Config) error {
	path, err := reportPath(fileName+".md", config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeCSV(fileName string, rows [][]string, config *configuration.Config) error {
	path, err := reportPath(fileName+".csv", config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// writePDF converts the rendered markdown to PDF.
func writePDF(fileName string, buf bytes.Buffer, config *configuration.Config) error {
	path, err := reportPath(fileName+".pdf", config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return mdtopdf.Convert(&buf, f)
}

func reportPath(fileName string, config *configuration.Config) (string, error) {
	if err := os.MkdirAll(config.Report.Directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	return filepath.Join(config.Report.Directory, fileName), nil
}

// Package report serializes a generated run to disk and to the console.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

// Timestamps renders now in loc as an ISO date ("2024-01-02") and as the
// localized short date ("2024/01/02").
func Timestamps(now time.Time, loc *time.Location) (date, local string) {
	t := now.In(loc)
	return t.Format("2006-01-02"), t.Format("2006/01/02")
}

// Writer writes the report documents into Dir. Empty optional file names
// disable the corresponding output.
type Writer struct {
	Dir           string
	StatsFile     string
	HeatmapFile   string
	LanguagesFile string
	ChartFile     string
	Logger        *logrus.Logger
}

type document struct {
	name string
	data []byte
}

// Write renders every document first and only then replaces the files, so a
// rendering failure leaves earlier outputs untouched.
func (w *Writer) Write(result *domain.Result) error {
	docs := make([]document, 0, 4)

	statsJSON, err := marshal(result.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal stats report: %w", err)
	}
	docs = append(docs, document{w.StatsFile, statsJSON})

	heatmapJSON, err := marshal(result.Heatmap)
	if err != nil {
		return fmt.Errorf("failed to marshal heatmap: %w", err)
	}
	docs = append(docs, document{w.HeatmapFile, heatmapJSON})

	if w.LanguagesFile != "" {
		languagesJSON, err := marshal(result.Languages)
		if err != nil {
			return fmt.Errorf("failed to marshal languages: %w", err)
		}
		docs = append(docs, document{w.LanguagesFile, languagesJSON})
	}

	if w.ChartFile != "" {
		var buf bytes.Buffer
		if err := RenderChart(&buf, result.Heatmap); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		docs = append(docs, document{w.ChartFile, buf.Bytes()})
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, doc := range docs {
		path := filepath.Join(w.Dir, doc.name)
		if err := writeFile(path, doc.data); err != nil {
			return err
		}
		if w.Logger != nil {
			w.Logger.WithField("path", path).Info("Wrote output file")
		}
	}
	return nil
}

// marshal encodes v with two-space indentation, leaving '<', '>' and '&' unescaped.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFile replaces path through a temporary file in the same directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Package export writes grievance collections in other formats: structured
// dumps (JSON, YAML, CSV, Markdown), score charts (SVG, PNG) and the JSON
// Schema of the data file.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// Format names an export format
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
)

// IsValid reports whether the format is supported
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatSVG, FormatPNG:
		return true
	}
	return false
}

// IsChart reports whether the format renders an image rather than records
func (f Format) IsChart() bool {
	return f == FormatSVG || f == FormatPNG
}

// ParseFormat accepts a format name, case-insensitively. "yml" and
// "markdown" are aliases.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "yml":
		f = FormatYAML
	case "markdown":
		f = FormatMarkdown
	}
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported export format %q (use json, yaml, csv, md, svg or png)", s)
	}
	return f, nil
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %q: no extension", path)
	}
	return ParseFormat(ext)
}

// record is the flat shape used by the YAML and CSV writers
type record struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Status      string `yaml:"status"`
	Upvotes     int    `yaml:"upvotes"`
	Downvotes   int    `yaml:"downvotes"`
	Score       int    `yaml:"score"`
	CreatedAt   string `yaml:"created_at"`
}

func toRecord(g model.Grievance) record {
	return record{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Author:      g.Author,
		Status:      string(g.Status),
		Upvotes:     g.Upvotes,
		Downvotes:   g.Downvotes,
		Score:       g.Score(),
		CreatedAt:   g.CreatedAt.String(),
	}
}

var csvHeader = []string{"id", "title", "description", "author", "status", "upvotes", "downvotes", "score", "created_at"}

// Write renders grievances to w in a record format. Chart formats are
// rejected; use SaveScoreChart for those.
func Write(w io.Writer, format Format, grievances []model.Grievance) error {
	if grievances == nil {
		grievances = []model.Grievance{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(grievances)
	case FormatYAML:
		records := make([]record, 0, len(grievances))
		for _, g := range grievances {
			records = append(records, toRecord(g))
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, grievances)
	case FormatMarkdown:
		return writeMarkdown(w, grievances)
	case FormatSVG, FormatPNG:
		return fmt.Errorf("%s is a chart format", format)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, grievances []model.Grievance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, g := range grievances {
		r := toRecord(g)
		row := []string{
			strconv.Itoa(r.ID),
			r.Title,
			r.Description,
			r.Author,
			r.Status,
			strconv.Itoa(r.Upvotes),
			strconv.Itoa(r.Downvotes),
			strconv.Itoa(r.Score),
			r.CreatedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var mdEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func writeMarkdown(w io.Writer, grievances []model.Grievance) error {
	var sb strings.Builder
	sb.WriteString("# Grievances\n\n")
	if len(grievances) == 0 {
		sb.WriteString("_No grievances._\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("| ID | Status | Score | Title | Author | Created |\n")
	sb.WriteString("|---:|---|---:|---|---|---|\n")
	for _, g := range grievances {
		fmt.Fprintf(&sb, "| %d | %s | %+d | %s | %s | %s |\n",
			g.ID, g.Status, g.Score(), mdEscaper.Replace(g.Title), mdEscaper.Replace(g.Author), g.CreatedAt.String())
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// ExportFile writes grievances to path. An empty format is inferred from
// the extension.
func ExportFile(path string, format Format, grievances []model.Grievance) error {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	if !format.IsValid() {
		return fmt.Errorf("unsupported export format %q", format)
	}
	if format.IsChart() {
		return SaveScoreChart(ChartOptions{Path: path, Format: format, Grievances: grievances})
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, format, grievances); err != nil {
		f.Close()
		return fmt.Errorf("write %s export: %w", format, err)
	}
	return f.Close()
}

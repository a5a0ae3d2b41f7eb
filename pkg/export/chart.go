package export

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// ChartOptions configures a score chart
type ChartOptions struct {
	Path       string
	Format     Format // svg or png; empty infers from Path
	Title      string
	Grievances []model.Grievance
}

const (
	chartWidth   = 900
	chartMargin  = 20
	chartHeader  = 50
	rowHeight    = 24
	barHeight    = 16
	labelWidth   = 320
	labelMaxCols = 44
)

var (
	colorBackground = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	colorText       = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	colorAxis       = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	colorPositive   = color.RGBA{R: 0x2e, G: 0x9e, B: 0x5b, A: 0xff}
	colorNegative   = color.RGBA{R: 0xd6, G: 0x45, B: 0x45, A: 0xff}
	colorResolved   = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
)

// chartRow is one bar, laid out in pixel space
type chartRow struct {
	label string
	score int
	x, y  int // bar origin
	w     int // bar width, always >= 0
	fill  color.RGBA
}

type chartLayout struct {
	width, height int
	zeroX         int
	rows          []chartRow
	title         string
}

// layoutChart places one horizontal bar per grievance, highest score first.
// Bars grow right from the zero axis for positive scores and left for negative.
func layoutChart(title string, grievances []model.Grievance) chartLayout {
	sorted := make([]model.Grievance, len(grievances))
	copy(sorted, grievances)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score() != sorted[j].Score() {
			return sorted[i].Score() > sorted[j].Score()
		}
		return sorted[i].ID < sorted[j].ID
	})

	maxPos, maxNeg := 0, 0
	for _, g := range sorted {
		if s := g.Score(); s > maxPos {
			maxPos = s
		} else if -s > maxNeg {
			maxNeg = -s
		}
	}
	span := maxPos + maxNeg
	if span == 0 {
		span = 1
	}

	plotLeft := chartMargin + labelWidth
	plotWidth := chartWidth - plotLeft - chartMargin - 40
	unit := float64(plotWidth) / float64(span)
	zeroX := plotLeft + int(float64(maxNeg)*unit)

	rows := make([]chartRow, 0, len(sorted))
	for i, g := range sorted {
		s := g.Score()
		w := int(float64(abs(s)) * unit)
		x := zeroX
		if s < 0 {
			x = zeroX - w
		}
		fill := colorPositive
		switch {
		case g.Status.IsResolved():
			fill = colorResolved
		case s < 0:
			fill = colorNegative
		}
		rows = append(rows, chartRow{
			label: runewidth.Truncate(fmt.Sprintf("#%d %s", g.ID, g.Title), labelMaxCols, "…"),
			score: s,
			x:     x,
			y:     chartHeader + i*rowHeight,
			w:     w,
			fill:  fill,
		})
	}

	height := chartHeader + len(rows)*rowHeight + chartMargin
	if len(rows) == 0 {
		height = chartHeader + rowHeight + chartMargin
	}
	if title == "" {
		title = "Grievances by score"
	}
	return chartLayout{width: chartWidth, height: height, zeroX: zeroX, rows: rows, title: title}
}

// SaveScoreChart renders a bar chart of grievance scores to an SVG or PNG file
func SaveScoreChart(opts ChartOptions) error {
	if opts.Path == "" {
		return fmt.Errorf("chart path is required")
	}
	format := opts.Format
	if format == "" {
		var err error
		if format, err = FormatFromPath(opts.Path); err != nil {
			return err
		}
	}
	if !format.IsChart() {
		return fmt.Errorf("unsupported chart format %q (use svg or png)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	layout := layoutChart(opts.Title, opts.Grievances)
	if format == FormatSVG {
		return saveSVG(opts.Path, layout)
	}
	return savePNG(opts.Path, layout)
}

func saveSVG(path string, l chartLayout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	w := bufio.NewWriter(f)

	canvas := svg.New(w)
	canvas.Start(l.width, l.height)
	canvas.Title(l.title)
	canvas.Rect(0, 0, l.width, l.height, "fill:"+hex(colorBackground))
	canvas.Text(chartMargin, chartMargin+12, l.title, "font-family:sans-serif;font-size:16px;font-weight:bold;fill:"+hex(colorText))

	if len(l.rows) == 0 {
		canvas.Text(chartMargin, chartHeader+barHeight, "No grievances", "font-family:sans-serif;font-size:12px;fill:"+hex(colorAxis))
	}
	for _, r := range l.rows {
		canvas.Text(chartMargin, r.y+barHeight-3, r.label, "font-family:sans-serif;font-size:12px;fill:"+hex(colorText))
		if r.w > 0 {
			canvas.Rect(r.x, r.y, r.w, barHeight, "fill:"+hex(r.fill))
		}
		canvas.Text(labelX(r), r.y+barHeight-3, fmt.Sprintf("%+d", r.score), "font-family:monospace;font-size:11px;fill:"+hex(colorText))
	}
	canvas.Line(l.zeroX, chartHeader-4, l.zeroX, l.height-chartMargin+4, "stroke:"+hex(colorAxis)+";stroke-width:1")
	canvas.End()

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	return f.Close()
}

func savePNG(path string, l chartLayout) error {
	dc := gg.NewContext(l.width, l.height)
	dc.SetColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawString(l.title, chartMargin, chartMargin+12)

	if len(l.rows) == 0 {
		dc.SetColor(colorAxis)
		dc.DrawString("No grievances", chartMargin, float64(chartHeader+barHeight))
	}
	for _, r := range l.rows {
		dc.SetColor(colorText)
		dc.DrawString(r.label, chartMargin, float64(r.y+barHeight-3))
		if r.w > 0 {
			dc.SetColor(r.fill)
			dc.DrawRectangle(float64(r.x), float64(r.y), float64(r.w), barHeight)
			dc.Fill()
		}
		dc.SetColor(colorText)
		dc.DrawString(fmt.Sprintf("%+d", r.score), float64(labelX(r)), float64(r.y+barHeight-3))
	}

	dc.SetColor(colorAxis)
	dc.SetLineWidth(1)
	dc.DrawLine(float64(l.zeroX), chartHeader-4, float64(l.zeroX), float64(l.height-chartMargin+4))
	dc.Stroke()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// labelX places the score label just past the end of the bar
func labelX(r chartRow) int {
	if r.score < 0 {
		return r.x - 28
	}
	return r.x + r.w + 6
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

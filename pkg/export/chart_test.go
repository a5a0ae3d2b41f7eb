package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

func TestSaveScoreChart_SVGAndPNG(t *testing.T) {
	grievances := sampleGrievances()

	tmp := t.TempDir()
	cases := []struct {
		name string
		file string
	}{
		{"svg", "chart.svg"},
		{"png", "chart.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(tmp, tc.file)
			if err := SaveScoreChart(ChartOptions{Path: out, Grievances: grievances}); err != nil {
				t.Fatalf("SaveScoreChart error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatalf("output file is empty")
			}
		})
	}
}

func TestSaveScoreChart_SVGContent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.svg")
	if err := SaveScoreChart(ChartOptions{Path: out, Title: "Ward 3", Grievances: sampleGrievances()}); err != nil {
		t.Fatalf("SaveScoreChart: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	for _, want := range []string{"<svg", "Ward 3", "#1 Broken AC", "+3", "-2"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestSaveScoreChart_Empty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.svg")
	if err := SaveScoreChart(ChartOptions{Path: out}); err != nil {
		t.Fatalf("SaveScoreChart: %v", err)
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "No grievances") {
		t.Error("expected placeholder text in empty chart")
	}
}

func TestSaveScoreChart_InvalidFormat(t *testing.T) {
	err := SaveScoreChart(ChartOptions{
		Path:       "chart.txt",
		Format:     "txt",
		Grievances: sampleGrievances(),
	})
	if err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestLayoutChart(t *testing.T) {
	grievances := []model.Grievance{
		{ID: 1, Title: "low", Status: model.StatusOpen, Downvotes: 2},
		{ID: 2, Title: "high", Status: model.StatusOpen, Upvotes: 4},
		{ID: 3, Title: "done", Status: model.StatusResolved, Upvotes: 1},
	}
	l := layoutChart("", grievances)

	if l.title == "" {
		t.Error("expected default title")
	}
	if len(l.rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(l.rows))
	}
	if l.rows[0].score != 4 || l.rows[2].score != -2 {
		t.Errorf("rows not ordered by score: %+v", l.rows)
	}
	neg := l.rows[2]
	if neg.x+neg.w != l.zeroX || neg.fill != colorNegative {
		t.Errorf("negative bar should end at zero axis: %+v zero=%d", neg, l.zeroX)
	}
	pos := l.rows[0]
	if pos.x != l.zeroX || pos.w <= 0 {
		t.Errorf("positive bar should start at zero axis: %+v zero=%d", pos, l.zeroX)
	}
	if l.rows[1].fill != colorResolved {
		t.Errorf("resolved bar should be grey, got %+v", l.rows[1].fill)
	}
}

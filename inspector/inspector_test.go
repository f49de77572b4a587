package inspector

import (
	"strings"
	"testing"
)

type sample struct {
	Label  string  `inspect:"label"`
	Timer  float32 `inspect:"label,fmt:%.1fs"`
	Stock  uint32  `inspect:"bar"`
	Capped float32 `inspect:"bar,max:4"`
	Hidden int     `inspect:"skip"`
	Flag   bool
	hidden int
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		format string
		max    float32
	}{
		{"", WidgetAuto, "", 0},
		{"bar", WidgetBar, "", 0},
		{"bar,max:200", WidgetBar, "", 200},
		{"label,fmt:%.1f", WidgetLabel, "%.1f", 0},
		{"label, fmt:%d ,unknown:1", WidgetLabel, "%d", 0},
		{"skip", WidgetSkip, "", 0},
		{"bar,max:lots", WidgetBar, "", 0},
	}
	for _, tt := range tests {
		w, format, max := ParseTag(tt.tag)
		if w != tt.widget || format != tt.format || max != tt.max {
			t.Errorf("ParseTag(%q) = %v,%q,%v; want %v,%q,%v",
				tt.tag, w, format, max, tt.widget, tt.format, tt.max)
		}
	}
}

func TestExtractFields(t *testing.T) {
	fields := ExtractFields(&sample{Label: "x", Flag: true})
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "Label,Timer,Stock,Capped,Flag" {
		t.Fatalf("fields = %s", got)
	}
	if fields[4].Widget != WidgetBool {
		t.Errorf("bool field should auto-detect as bool, got %v", fields[4].Widget)
	}
	if ExtractFields(42) != nil {
		t.Error("non-struct should have no fields")
	}
}

func TestRender(t *testing.T) {
	var b strings.Builder
	sec := Describe("Sample", sample{Label: "wheat", Timer: 2.5, Stock: 5, Capped: 1, Flag: true})
	if err := Render(&b, Limits{"Stock": 10}, sec); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"Sample\n",
		"wheat",
		"2.5s",
		"[#####.....] 5/10",
		"[###.......] 1.00/4",
		"yes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Hidden") {
		t.Error("skipped field was rendered")
	}
}

func TestBarClamps(t *testing.T) {
	if got := bar(20, 10); got != "[##########]" {
		t.Errorf("bar over max = %s", got)
	}
	if got := bar(3, 0); got != "[..........]" {
		t.Errorf("bar with zero max = %s", got)
	}
}

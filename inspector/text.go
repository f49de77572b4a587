package inspector

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 10

// Section is one titled component in an inspection.
type Section struct {
	Title  string
	Fields []Field
}

// Limits overrides the bar max of fields by name.
type Limits map[string]float32

// Describe extracts the inspectable fields of component under title.
func Describe(title string, component any) Section {
	return Section{Title: title, Fields: ExtractFields(component)}
}

// Render writes sections as indented text, one field per line.
func Render(w io.Writer, limits Limits, sections ...Section) error {
	var b strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&b, "%s\n", sec.Title)
		for _, f := range sec.Fields {
			fmt.Fprintf(&b, "  %-18s %s\n", f.Name, formatField(f, limits))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatField(f Field, limits Limits) string {
	switch f.Widget {
	case WidgetBool:
		if v, ok := f.Value.(bool); ok && v {
			return "yes"
		}
		return "no"
	case WidgetBar:
		val, ok := numeric(f.Value)
		if !ok {
			return FormatValue(f.Value, f.Format)
		}
		capacity := f.Max
		if l, ok := limits[f.Name]; ok && l > 0 {
			capacity = l
		}
		if capacity <= 0 {
			capacity = 1
		}
		return bar(val, capacity) + " " + FormatValue(f.Value, f.Format) + "/" + FormatValue(capacity, "%g")
	default:
		return FormatValue(f.Value, f.Format)
	}
}

// bar draws val/capacity as a fixed width gauge, clamped to [0,1].
func bar(val, capacity float32) string {
	frac := float32(0)
	if capacity > 0 {
		frac = val / capacity
	}
	frac = min(max(frac, 0), 1)
	filled := int(frac*barWidth + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

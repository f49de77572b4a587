// Package inspector renders ECS components as text using their inspect tags.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Field is one exported component field with its drawing hints.
type Field struct {
	Name   string
	Value  any
	Widget Widget
	Format string  // fmt verb from the tag, empty for the default
	Max    float32 // bar capacity from the tag, 0 if unset
}

// ParseTag reads an inspect tag of the form `widget[,key:value...]`.
// Known keys are fmt and max; unknown keys are ignored.
//
//	`inspect:"bar,max:200"`
//	`inspect:"label,fmt:%.1fs"`
func ParseTag(tag string) (w Widget, format string, max float32) {
	parts := strings.Split(tag, ",")
	w = widgetNames[strings.TrimSpace(parts[0])]
	for _, part := range parts[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			format = val
		case "max":
			if f, err := strconv.ParseFloat(val, 32); err == nil {
				max = float32(f)
			}
		}
	}
	return w, format, max
}

// ExtractFields lists the exported, non-skipped fields of a struct or
// pointer to struct. Anything else yields nil.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := range v.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		w, format, max := ParseTag(sf.Tag.Get("inspect"))
		if w == WidgetSkip {
			continue
		}
		if w == WidgetAuto {
			w = WidgetLabel
			if sf.Type.Kind() == reflect.Bool {
				w = WidgetBool
			}
		}
		fields = append(fields, Field{
			Name:   sf.Name,
			Value:  v.Field(i).Interface(),
			Widget: w,
			Format: format,
			Max:    max,
		})
	}
	return fields
}

// FormatValue prints value with format, or with two decimals for floats
// and %v otherwise when format is empty.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprint(value)
}

// numeric converts any integer or float value to float32.
func numeric(value any) (float32, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return float32(v.Float()), true
	case v.CanInt():
		return float32(v.Int()), true
	case v.CanUint():
		return float32(v.Uint()), true
	}
	return 0, false
}

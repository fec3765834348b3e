package handler

import (
	"fmt"
	"time"

	"remap/options"
	"remap/primitive"
)

// defaultLayouts are tried in order when a field declares no explicit
// format.
var defaultLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// datetimeHandler parses time.Time values via an explicit layout when
// given, else the default layout set, applying timezone conversion when
// a location is configured.
type datetimeHandler struct {
	format string
	loc    *time.Location
	cats   options.CategoryEnum
}

func (h datetimeHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if t, ok := raw.(time.Time); ok {
		return h.located(t), nil
	}

	if s, ok := primitive.StringOf(raw); ok {
		if !h.cats.Has(options.CategoryDatetime) {
			return nil, fmt.Errorf("datetime parsing from strings is disabled")
		}

		return h.parse(s)
	}

	if n, ok := primitive.Int64Of(raw); ok && h.cats.Has(options.CategoryTimestamp) {
		return h.located(time.Unix(n, 0).UTC()), nil
	}

	return nil, fmt.Errorf("cannot represent %T as a datetime", raw)
}

func (h datetimeHandler) parse(s string) (any, error) {
	loc := h.loc
	if loc == nil {
		loc = time.UTC
	}

	if h.format != "" {
		t, err := time.ParseInLocation(h.format, s, loc)
		if err != nil {
			return nil, fmt.Errorf("value %q does not match datetime format %q", s, h.format)
		}

		return h.located(t), nil
	}

	for _, layout := range defaultLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return h.located(t), nil
		}
	}

	return nil, fmt.Errorf("value %q is not a recognizable datetime", s)
}

func (h datetimeHandler) located(t time.Time) time.Time {
	if h.loc != nil {
		return t.In(h.loc)
	}

	return t
}

func (h datetimeHandler) Encode(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a datetime", v)
	}

	layout := h.format
	if layout == "" {
		layout = time.RFC3339
	}

	return h.located(t).Format(layout), nil
}

// durationHandler parses time.Duration from the textual form or a
// nanosecond count.
type durationHandler struct{}

func (durationHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	switch {
	case isDuration(raw):
		return raw, nil
	default:
		if s, ok := primitive.StringOf(raw); ok {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a duration", s)
			}

			return d, nil
		}

		if n, ok := primitive.Int64Of(raw); ok {
			return time.Duration(n), nil
		}
	}

	return nil, fmt.Errorf("cannot represent %T as a duration", raw)
}

func (durationHandler) Encode(v any) (any, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a duration", v)
	}

	return d.String(), nil
}

func isDuration(v any) bool {
	_, ok := v.(time.Duration)
	return ok
}

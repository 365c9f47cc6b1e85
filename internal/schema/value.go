package schema

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/einvoice-converter/internal/decimal"
	"github.com/rezonia/einvoice-converter/internal/record"
)

// DateLayout is the layout every date is written with
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when reading a date
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"02.01.2006 15:04:05",
	DateLayout,
	"02.01.2006",
}

// ParseDate reads s with the known layouts. The date part before a 'T' is
// tried last. The result is the calendar date at midnight UTC; any time of
// day is dropped. Nil is returned when nothing matches.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t)
		}
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		if t, err := time.Parse(DateLayout, s[:i]); err == nil {
			return calendarDate(t)
		}
	}
	return nil
}

func calendarDate(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// ParseBool reads true, yes and 1 (any case) as true; everything else is false
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// decodeValue stores raw into the field reference according to its type
func decodeValue(key, raw string, ref any) {
	switch p := ref.(type) {
	case **string:
		v := raw
		*p = &v
	case **decimal.Decimal:
		d, ok := dec.Parse(raw)
		if !ok && raw != "" {
			log.Debug().Str("field", key).Str("value", raw).Msg("unparseable number, using zero")
		}
		*p = &d
	case **time.Time:
		t := ParseDate(raw)
		if t == nil {
			log.Debug().Str("field", key).Str("value", raw).Msg("unparseable date, leaving empty")
		}
		*p = t
	case **bool:
		b := ParseBool(raw)
		*p = &b
	}
}

// encodeValue appends the field reference to n as a leaf; nil values are skipped
func encodeValue(n *record.Node, key string, ref any) {
	switch p := ref.(type) {
	case **string:
		n.SetString(key, *p)
	case **decimal.Decimal:
		if *p != nil {
			s := (*p).String()
			n.Set(key, record.KindNumber, &s)
		}
	case **time.Time:
		if *p != nil {
			s := (*p).Format(DateLayout)
			n.Set(key, record.KindString, &s)
		}
	case **bool:
		if *p != nil {
			s := "false"
			if **p {
				s = "true"
			}
			n.Set(key, record.KindBool, &s)
		}
	}
}

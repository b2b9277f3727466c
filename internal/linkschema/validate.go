// Package linkschema defines the contract every entry of the "links" collection must satisfy
// and validates raw, untyped records against it.
package linkschema

import (
	"encoding/json"
	"errors"
	"math"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Field names as they appear in link data files.
const (
	FieldTitle   = "title"
	FieldHref    = "href"
	FieldIcon    = "icon"
	FieldSection = "section"
	FieldOrder   = "order"
)

// Fields lists every schema field in declaration order.
func Fields() []string {
	return []string{FieldTitle, FieldHref, FieldIcon, FieldSection, FieldOrder}
}

// allowedSchemes restricts href to web links.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// LinkEntry is a validated link record.
type LinkEntry struct {
	Title   string  `json:"title" yaml:"title"`
	Href    string  `json:"href" yaml:"href"`
	Icon    *string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Section Section `json:"section" yaml:"section"`
	Order   int     `json:"order" yaml:"order"`
}

// IconOr returns the icon, or def when none was set.
func (e LinkEntry) IconOr(def string) string {
	if e.Icon == nil {
		return def
	}
	return *e.Icon
}

// Validate checks record against the LinkEntry contract.
//
// All fields are checked; on failure the returned error is a *ValidationError listing
// every problem. A key mapped to nil is treated as absent. Unknown keys are ignored.
func Validate(record map[string]any) (LinkEntry, error) {
	var (
		entry LinkEntry
		errs  []FieldError
	)
	fail := func(fe *FieldError) {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}

	title, fe := requiredText(record, FieldTitle)
	if fe == nil && strings.TrimSpace(title) == "" {
		fe = &FieldError{Field: FieldTitle, Kind: KindInvalidFormat, Value: title, Reason: "must not be blank"}
	}
	fail(fe)
	entry.Title = title

	href, fe := requiredText(record, FieldHref)
	if fe == nil {
		fe = checkURL(href)
	}
	fail(fe)
	entry.Href = href

	if v, ok := lookup(record, FieldIcon); ok {
		if s, isText := v.(string); isText {
			entry.Icon = &s
		} else {
			fail(&FieldError{Field: FieldIcon, Kind: KindTypeMismatch, Value: v, Reason: "expected text"})
		}
	}

	section, fe := requiredText(record, FieldSection)
	if fe == nil {
		if sec, ok := ParseSection(section); ok {
			entry.Section = sec
		} else {
			fe = &FieldError{Field: FieldSection, Kind: KindEnumMismatch, Value: section, Reason: "expected one of " + sectionList()}
		}
	}
	fail(fe)

	if v, ok := lookup(record, FieldOrder); ok {
		order, fe := positiveInt(v)
		fail(fe)
		entry.Order = order
	} else {
		fail(&FieldError{Field: FieldOrder, Kind: KindMissingField})
	}

	if len(errs) > 0 {
		return LinkEntry{}, &ValidationError{Fields: errs}
	}
	return entry, nil
}

func lookup(record map[string]any, key string) (any, bool) {
	v, ok := record[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requiredText(record map[string]any, key string) (string, *FieldError) {
	v, ok := lookup(record, key)
	if !ok {
		return "", &FieldError{Field: key, Kind: KindMissingField}
	}
	s, isText := v.(string)
	if !isText {
		return "", &FieldError{Field: key, Kind: KindTypeMismatch, Value: v, Reason: "expected text"}
	}
	return s, nil
}

func checkURL(raw string) *FieldError {
	invalid := func(reason string) *FieldError {
		return &FieldError{Field: FieldHref, Kind: KindInvalidFormat, Value: raw, Reason: reason}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return invalid("not a url")
	}
	if !u.IsAbs() {
		return invalid("url must be absolute")
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return invalid("scheme must be http or https")
	}
	host := u.Hostname()
	if host == "" {
		return invalid("url has no host")
	}
	if !validHost(host) {
		return invalid("host is not a valid hostname or ip address")
	}
	return nil
}

// validHost accepts an IP literal or a name of letters (IDN included), digits, '-', '_' and
// non-empty dot-separated labels. A single trailing dot is allowed.
func validHost(host string) bool {
	if _, err := netip.ParseAddr(host); err == nil {
		return true
	}
	name := strings.TrimSuffix(host, ".")
	if name == "" {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return false
		}
		for _, r := range label {
			switch {
			case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			default:
				return false
			}
		}
	}
	return true
}

func positiveInt(v any) (int, *FieldError) {
	outOfRange := func(reason string) *FieldError {
		return &FieldError{Field: FieldOrder, Kind: KindOutOfRange, Value: v, Reason: reason}
	}

	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, outOfRange("too large")
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, outOfRange("too large")
		}
		n = int64(x)
	case float32:
		return floatOrder(float64(x), outOfRange)
	case float64:
		return floatOrder(x, outOfRange)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = i
			break
		}
		f, err := x.Float64()
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange("beyond float64 range")
		}
		if err != nil {
			return 0, &FieldError{Field: FieldOrder, Kind: KindInvalidFormat, Value: v, Reason: "not a number"}
		}
		return floatOrder(f, outOfRange)
	default:
		return 0, &FieldError{Field: FieldOrder, Kind: KindTypeMismatch, Value: v, Reason: "expected integer"}
	}

	if n <= 0 {
		return 0, outOfRange("must be greater than zero")
	}
	if n > math.MaxInt {
		return 0, outOfRange("too large")
	}
	return int(n), nil
}

func floatOrder(f float64, outOfRange func(string) *FieldError) (int, *FieldError) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, outOfRange("must be finite")
	case f != math.Trunc(f):
		return 0, outOfRange("must be a whole number")
	case f <= 0:
		return 0, outOfRange("must be greater than zero")
	case f > 1<<53:
		return 0, outOfRange("too large")
	}
	return int(f), nil
}

func sectionList() string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

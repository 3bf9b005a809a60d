// file: internals/features/evaluations/answers/answers.go
package answers

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key addresses one question inside a template: zero-based section index
// and zero-based question index within that section.
type Key struct {
	Section  int
	Question int
}

// K is a short constructor used heavily by callers and tests.
func K(section, question int) Key {
	return Key{Section: section, Question: question}
}

// String is the storage form "<section>-<question>".
func (k Key) String() string {
	return strconv.Itoa(k.Section) + "-" + strconv.Itoa(k.Question)
}

// Less orders keys section-first.
func (k Key) Less(o Key) bool {
	if k.Section != o.Section {
		return k.Section < o.Section
	}
	return k.Question < o.Question
}

// MarshalText lets keys serialize as "0-1" in JSON objects and values.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey reverses Key.String. Only used at the storage and wire boundary.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	sec, q, ok := strings.Cut(s, "-")
	if !ok {
		return Key{}, fmt.Errorf("answer key %q: expected <section>-<question>", s)
	}
	si, err := strconv.Atoi(sec)
	if err != nil || si < 0 {
		return Key{}, fmt.Errorf("answer key %q: invalid section index", s)
	}
	qi, err := strconv.Atoi(q)
	if err != nil || qi < 0 {
		return Key{}, fmt.Errorf("answer key %q: invalid question index", s)
	}
	return Key{Section: si, Question: qi}, nil
}

// Answer is either a number (rating by grade value) or free text
// (text questions and legacy "- Label" rating answers).
type Answer struct {
	num   float64
	text  string
	isNum bool
}

func Number(v float64) Answer { return Answer{num: v, isNum: true} }

func Text(s string) Answer { return Answer{text: s} }

// Float reports the numeric value of the answer. Numeric strings count.
func (a Answer) Float() (float64, bool) {
	if a.isNum {
		return a.num, true
	}
	s := strings.TrimSpace(a.text)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsNumber is true only for answers stored as numbers.
func (a Answer) IsNumber() bool { return a.isNum }

func (a Answer) String() string {
	if a.isNum {
		return strconv.FormatFloat(a.num, 'f', -1, 64)
	}
	return a.text
}

// IsBlank is true for empty or whitespace-only text answers.
func (a Answer) IsBlank() bool {
	return !a.isNum && strings.TrimSpace(a.text) == ""
}

// Raw returns the storage value: float64 for numbers, string otherwise.
func (a Answer) Raw() any {
	if a.isNum {
		return a.num
	}
	return a.text
}

// FromRaw converts a decoded JSON value. nil and unsupported types are rejected.
func FromRaw(v any) (Answer, bool) {
	switch t := v.(type) {
	case float64:
		return Number(t), true
	case float32:
		return Number(float64(t)), true
	case int:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case int32:
		return Number(float64(t)), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Text(t.String()), true
		}
		return Number(f), true
	case string:
		return Text(t), true
	default:
		return Answer{}, false
	}
}

// Map is the answer store for one party (self, manager or draft).
type Map map[Key]Answer

// Answered is true when a non-blank answer exists for k.
func (m Map) Answered(k Key) bool {
	a, ok := m[k]
	return ok && !a.IsBlank()
}

// Keys returns the keys in template order.
func (m Map) Keys() []Key {
	out := make([]Key, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal compares content; nil and empty maps are equal.
func (m Map) Equal(o Map) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		ov, ok := o[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Decode parses the storage/wire form. Unknown value types and malformed keys fail;
// null values are dropped.
func Decode(raw map[string]any) (Map, error) {
	out := make(Map, len(raw))
	for ks, v := range raw {
		if v == nil {
			continue
		}
		k, err := ParseKey(ks)
		if err != nil {
			return nil, err
		}
		a, ok := FromRaw(v)
		if !ok {
			return nil, fmt.Errorf("answer %s: unsupported value type %T", ks, v)
		}
		out[k] = a
	}
	return out, nil
}

// Encode produces the storage/wire form.
func (m Map) Encode() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k.String()] = v.Raw()
	}
	return out
}

func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Encode())
}

func (m *Map) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	decoded, err := Decode(raw)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// Package codec maps SmartTask records to single delimited text lines and
// back.
//
// Fields are joined with '|'. Free-text values are escaped so a value may
// contain the delimiter, a backslash or a line break:
//
//	\  -> \\
//	|  -> \|
//	LF -> \n
//	CR -> \r
//
// Lines written before escaping existed contain no backslashes and decode
// unchanged. Decoding never panics: a line that cannot be parsed is reported
// as Corrupt and left out of the result.
package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/models"
)

const (
	Delimiter = '|'
	nullToken = "null"
)

var ErrTooFewFields = errors.New("too few fields")

// Corrupt describes a line that was skipped while decoding.
type Corrupt struct {
	Line int // 1-based line number
	Raw  string
	Err  error
}

func (c Corrupt) Error() string {
	return fmt.Sprintf("line %d: %v", c.Line, c.Err)
}

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`, "\r", `\r`)

func escape(s string) string {
	return escaper.Replace(s)
}

// join escapes each field and joins them with the delimiter.
func join(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escape(f)
	}
	return strings.Join(escaped, string(Delimiter))
}

// split cuts line on unescaped delimiters and unescapes each field. It works
// on bytes so text that is not valid UTF-8 survives unchanged.
func split(line string) []string {
	fields := make([]string, 0, 10)
	var b strings.Builder
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escaped {
			switch c {
			case '\\', Delimiter:
				b.WriteByte(c)
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte('\\')
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case Delimiter:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	return append(fields, b.String())
}

func fieldsOf(line string, want int) ([]string, error) {
	parts := split(line)
	if len(parts) < want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTooFewFields, len(parts), want)
	}
	return parts, nil
}

func formatTime(t time.Time) string {
	return models.FormatTime(t)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return nullToken
	}
	return formatTime(*t)
}

// inputLayouts are tried in order. The second covers minute-precision
// values, which older files contain for timestamps whose seconds were zero.
var inputLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return models.Stamp(t), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("%s: %w", field, lastErr)
}

func parseOptionalTime(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == nullToken || strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseTime(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// parseBool is lenient: "true" in any case is true, anything else false.
func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

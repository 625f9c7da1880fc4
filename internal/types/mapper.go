package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Row is a raw result row keyed by column name, as scanned by gorm into a map.
// Accessors tolerate the driver representations of each column type and return
// the zero value for missing or NULL columns.
type Row map[string]interface{}

// IsNull reports whether the column is missing or NULL
func (r Row) IsNull(key string) bool {
	v, ok := r[key]
	return !ok || v == nil
}

// String returns the column as a string
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case *string:
		return SafeString(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringPtr returns the column as a string pointer, nil when NULL
func (r Row) StringPtr(key string) *string {
	if r.IsNull(key) {
		return nil
	}
	return StringPtr(r.String(key))
}

// Decimal returns a numeric column normalized to its canonical decimal text, nil when NULL or not numeric
func (r Row) Decimal(key string) *string {
	if r.IsNull(key) {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(r.String(key)))
	if err != nil {
		return nil
	}
	return StringPtr(d.String())
}

// Int64 returns the column as an int64
func (r Row) Int64(key string) int64 {
	i, _ := r.int64(key)
	return i
}

// Int64Ptr returns the column as an int64 pointer, nil when NULL
func (r Row) Int64Ptr(key string) *int64 {
	i, ok := r.int64(key)
	if !ok {
		return nil
	}
	return Int64Ptr(i)
}

func (r Row) int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case nil:
		return 0, false
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case int16:
		return int64(v), true
	case float64:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		d, err := decimal.NewFromString(strings.TrimSpace(r.String(key)))
		if err != nil {
			return 0, false
		}
		return d.IntPart(), true
	}
}

// Bool returns the column as a bool
func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case int64:
		return v != 0
	default:
		b, err := strconv.ParseBool(strings.TrimSpace(r.String(key)))
		return err == nil && b
	}
}

// UnixTime returns a unix seconds column as a UTC time
func (r Row) UnixTime(key string) time.Time {
	if t := r.UnixTimePtr(key); t != nil {
		return *t
	}
	return time.Time{}
}

// UnixTimePtr returns a unix seconds column as a UTC time pointer, nil when NULL
func (r Row) UnixTimePtr(key string) *time.Time {
	if t, ok := r[key].(time.Time); ok {
		t = t.UTC()
		return &t
	}
	seconds, ok := r.int64(key)
	if !ok {
		return nil
	}
	t := time.Unix(seconds, 0).UTC()
	return &t
}

// StringSlice returns an array column as a string slice.
// Postgres array literals ({a,b}) and JSON arrays are both accepted.
func (r Row) StringSlice(key string) []string {
	switch v := r[key].(type) {
	case nil:
		return nil
	case []string:
		return v
	case pq.StringArray:
		return []string(v)
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			values = append(values, fmt.Sprint(item))
		}
		return values
	case []byte:
		return parseArray(string(v))
	case string:
		return parseArray(v)
	}
	return nil
}

func parseArray(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var values []string
		if err := json.Unmarshal([]byte(s), &values); err != nil {
			return nil
		}
		return values
	}
	var values pq.StringArray
	if err := values.Scan(s); err != nil {
		return nil
	}
	return []string(values)
}

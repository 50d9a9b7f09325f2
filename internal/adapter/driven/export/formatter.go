package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Format renders value for display under tag. It never fails: values that
// cannot be interpreted for the tag fall back to their default string form.
func (l Locale) Format(value any, tag entity.FormatTag) string {
	if value == nil {
		return ""
	}

	switch tag {
	case entity.TagCurrency:
		cents, ok := toDecimal(value)
		if !ok {
			return fmt.Sprint(value)
		}
		return l.currency(cents.Shift(-2))
	case entity.TagNumber:
		d, ok := toDecimal(value)
		if !ok {
			return fmt.Sprint(value)
		}
		return l.number(d)
	case entity.TagPercentage:
		d, ok := toDecimal(value)
		if !ok {
			return fmt.Sprint(value)
		}
		return d.Mul(hundred).StringFixed(2) + "%"
	case entity.TagDate, entity.TagDateTime:
		t, ok := toTime(value)
		if !ok {
			return fmt.Sprint(value)
		}
		layout := l.DateLayout
		if tag == entity.TagDateTime {
			layout = l.DateTimeLayout
		}
		return t.In(l.Location).Format(layout)
	default:
		return fmt.Sprint(value)
	}
}

func (l Locale) currency(amount decimal.Decimal) string {
	s := l.grouped(amount.Abs().StringFixed(2))
	if amount.Round(2).IsNegative() {
		return "-" + l.CurrencySymbol + " " + s
	}
	return l.CurrencySymbol + " " + s
}

// number keeps at most three fraction digits and drops trailing zeros.
func (l Locale) number(d decimal.Decimal) string {
	d = d.Round(3)
	s := l.grouped(d.Abs().String())
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// grouped localizes an unsigned plain decimal string like "1234567.5".
func (l Locale) grouped(plain string) string {
	intPart, frac, hasFrac := strings.Cut(plain, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(l.ThousandSeparator)
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteString(l.DecimalSeparator)
		b.WriteString(frac)
	}
	return b.String()
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int8:
		return decimal.NewFromInt(int64(v)), true
	case int16:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint8:
		return decimal.NewFromInt(int64(v)), true
	case uint16:
		return decimal.NewFromInt(int64(v)), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case uint:
		d, err := decimal.NewFromString(strconv.FormatUint(uint64(v), 10))
		return d, err == nil
	case uint64:
		d, err := decimal.NewFromString(strconv.FormatUint(v, 10))
		return d, err == nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case decimal.Decimal:
		return v, true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

// toTime accepts time values, ISO-like strings and epoch milliseconds.
func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		if t, ok := entity.ParseDate(v); ok {
			return t, true
		}
		s := strings.TrimSpace(v)
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	default:
		d, ok := toDecimal(value)
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(d.IntPart()).UTC(), true
	}
}

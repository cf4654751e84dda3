// Package format holds the symmetric display transforms applied to bound
// controls. Each type pairs a format direction (canonical -> display) with
// an unformat direction (display -> canonical); values outside a type's
// domain pass through both directions unchanged.
package format

import (
	"strings"

	"github.com/goliatone/go-formbind/internal/valutil"
)

// Built-in type tags, as written in the format-type attribute.
const (
	TypeUpper = "upper"
	TypeNum   = "num"
	TypeYMD   = "ymd"
	TypeHMS   = "hms"
)

func (r *Registry) registerBuiltins() {
	r.MustRegister(TypeUpper, Upper)
	r.MustRegister(TypeNum, Num)
	r.MustRegister(TypeYMD, YMD)
	r.MustRegister(TypeHMS, HMS)
}

// Upper displays text in upper case. Unformat keeps the display value, so the
// round trip holds for values that are already upper case.
var Upper Type = Pair{
	FormatFunc: func(raw string) (string, bool) {
		if valutil.IsBlank(raw) {
			return raw, false
		}
		return strings.ToUpper(raw), true
	},
	UnformatFunc: func(display string) (string, bool) {
		return display, false
	},
}

// Num groups the integer part of a decimal number in thousands. The fraction
// is left as is.
var Num Type = Pair{
	FormatFunc:   formatNum,
	UnformatFunc: unformatNum,
}

func formatNum(raw string) (string, bool) {
	if valutil.IsBlank(raw) {
		return raw, false
	}
	plain := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if !valutil.IsNum(plain) {
		return raw, false
	}
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign, plain = "-", plain[1:]
	}
	intPart, frac, hasFrac := strings.Cut(plain, ".")
	out := sign + groupThousands(intPart)
	if hasFrac {
		out += "." + frac
	}
	return out, true
}

func unformatNum(display string) (string, bool) {
	if valutil.IsBlank(display) {
		return display, false
	}
	plain := strings.ReplaceAll(strings.TrimSpace(display), ",", "")
	if !valutil.IsNum(plain) {
		return display, false
	}
	return plain, true
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// YMD displays an eight digit date as YYYY/MM/DD.
var YMD Type = Pair{
	FormatFunc: func(raw string) (string, bool) {
		plain := strings.ReplaceAll(strings.TrimSpace(raw), "/", "")
		if !valutil.IsDate(plain) {
			return raw, false
		}
		return plain[0:4] + "/" + plain[4:6] + "/" + plain[6:8], true
	},
	UnformatFunc: func(display string) (string, bool) {
		plain := strings.ReplaceAll(strings.TrimSpace(display), "/", "")
		if !valutil.IsDate(plain) {
			return display, false
		}
		return plain, true
	},
}

// HMS displays a six digit time as HH:MI:SS.
var HMS Type = Pair{
	FormatFunc: func(raw string) (string, bool) {
		plain := strings.ReplaceAll(strings.TrimSpace(raw), ":", "")
		if len(plain) != 6 || !valutil.IsDigits(plain) {
			return raw, false
		}
		return plain[0:2] + ":" + plain[2:4] + ":" + plain[4:6], true
	},
	UnformatFunc: func(display string) (string, bool) {
		plain := strings.ReplaceAll(strings.TrimSpace(display), ":", "")
		if len(plain) != 6 || !valutil.IsDigits(plain) {
			return display, false
		}
		return plain, true
	},
}

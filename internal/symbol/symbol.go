package symbol

import (
	"strings"

	"github.com/MGmoket/stock-assistant/pkg/errors"
)

// Board is the listing venue segment of an A-share code.
type Board string

const (
	BoardShanghaiMain Board = "sh-main"
	BoardShenzhenMain Board = "sz-main"
	BoardChiNext      Board = "chinext"
	BoardSTAR         Board = "star"
	BoardBeijing      Board = "beijing"
	BoardUnknown      Board = "unknown"
)

const codeLength = 6

// Normalize converts '600519', 'sh600519', 'SH600519' or '600519.SH' into
// the bare six-digit code. Shorter numeric codes are left-padded with zeros.
func Normalize(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))

	for _, prefix := range []string{"SH", "SZ", "BJ"} {
		code = strings.TrimPrefix(code, prefix)
	}

	for _, suffix := range []string{".SH", ".SZ", ".BJ"} {
		code = strings.TrimSuffix(code, suffix)
	}

	if code == "" || len(code) > codeLength {
		return "", errors.Newf(errors.ErrCodeInvalidSymbol, "invalid symbol %q", raw)
	}

	for _, r := range code {
		if r < '0' || r > '9' {
			return "", errors.Newf(errors.ErrCodeInvalidSymbol, "invalid symbol %q", raw)
		}
	}

	return strings.Repeat("0", codeLength-len(code)) + code, nil
}

// MustNormalize is Normalize for trusted literals.
func MustNormalize(raw string) string {
	code, err := Normalize(raw)
	if err != nil {
		panic(err)
	}

	return code
}

// BoardOf classifies a normalized code by prefix.
func BoardOf(code string) Board {
	switch {
	case hasAnyPrefix(code, "600", "601", "603", "605"):
		return BoardShanghaiMain
	case hasAnyPrefix(code, "000", "001", "002", "003"):
		return BoardShenzhenMain
	case hasAnyPrefix(code, "300", "301"):
		return BoardChiNext
	case hasAnyPrefix(code, "688", "689"):
		return BoardSTAR
	case hasAnyPrefix(code, "8", "4", "92"):
		return BoardBeijing
	default:
		return BoardUnknown
	}
}

// IsMainBoard reports whether code trades on the Shanghai or Shenzhen main
// board.
func IsMainBoard(code string) bool {
	board := BoardOf(code)

	return board == BoardShanghaiMain || board == BoardShenzhenMain
}

// IsST reports whether a security name carries a special-treatment tag.
func IsST(name string) bool {
	return strings.Contains(strings.ToUpper(name), "ST")
}

// LimitPct returns the daily price limit in percent for a code. Special
// treatment names are limited to 5%.
func LimitPct(code, name string) float64 {
	if IsST(name) {
		return 5
	}

	switch BoardOf(code) {
	case BoardChiNext, BoardSTAR:
		return 20
	case BoardBeijing:
		return 30
	default:
		return 10
	}
}

// IsLimitUp reports whether a percent change reached the limit within
// tolerance percentage points.
func IsLimitUp(pctChange float64, code, name string, tolerance float64) bool {
	return pctChange >= LimitPct(code, name)-tolerance
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}

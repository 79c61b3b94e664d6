package voucher

import (
	"strings"

	"admissions-backoffice/pkg/util"
)

const pinLength = 12

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func maskPin(pin string) string {
	if len(pin) < 6 {
		return "***"
	}
	return pin[:2] + strings.Repeat("*", len(pin)-4) + pin[len(pin)-2:]
}

func newPin() (string, error) {
	return util.GeneratePIN(pinLength)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

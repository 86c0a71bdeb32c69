package marketdata

import "strings"

// QualifySymbol normalises a user symbol and appends the market suffix.
// Index symbols (^NSEI) and symbols that already carry the suffix are
// left alone.
func QualifySymbol(symbol, suffix string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || suffix == "" {
		return symbol
	}

	if strings.HasPrefix(symbol, "^") || strings.HasSuffix(symbol, strings.ToUpper(suffix)) {
		return symbol
	}

	return symbol + strings.ToUpper(suffix)
}

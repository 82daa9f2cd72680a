package wallet

import (
	"fmt"
	"math/big"
	"strings"
)

// etherDecimals is the minor-unit exponent of the native currency: 1 ether
// equals 10^18 wei.
const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// ParseEther converts a decimal ether amount such as "0.005" into wei with no
// rounding loss. At most 18 fractional digits are accepted; anything finer has
// no wei representation and is rejected rather than truncated.
func ParseEther(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("amount is required")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("amount must be positive")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("amount %q is not a decimal number", amount)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("amount %q is not a decimal number", amount)
	}
	if len(frac) > etherDecimals {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", amount, etherDecimals)
	}

	wholeWei, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a decimal number", amount)
	}
	wholeWei.Mul(wholeWei, weiPerEther)

	if frac != "" {
		// Right-pad the fraction to 18 digits so "5" means 0.5 ether, not 5 wei.
		fracWei, ok := new(big.Int).SetString(frac+strings.Repeat("0", etherDecimals-len(frac)), 10)
		if !ok {
			return nil, fmt.Errorf("amount %q is not a decimal number", amount)
		}
		wholeWei.Add(wholeWei, fracWei)
	}

	return wholeWei, nil
}

// FormatEther renders a wei value as a decimal ether string, trimming
// trailing fractional zeros. The inverse of ParseEther.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	quo, rem := new(big.Int).QuoRem(wei, weiPerEther, new(big.Int))
	if rem.Sign() == 0 {
		return quo.String()
	}
	frac := strings.TrimRight(fmt.Sprintf("%018s", rem.String()), "0")
	return quo.String() + "." + frac
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

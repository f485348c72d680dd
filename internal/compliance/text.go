package compliance

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaskCPF renders an 11 digit CPF as 000.000.000-00. Any other digit count
// returns cpf unchanged.
func MaskCPF(cpf string) string {
	digits := make([]byte, 0, 11)
	for i := 0; i < len(cpf); i++ {
		if c := cpf[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) != 11 {
		return cpf
	}
	d := string(digits)
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	// cases.Caser keeps state and must not be shared between goroutines.
	return cases.Title(language.BrazilianPortuguese).String(strings.TrimSpace(s))
}

package compose

import (
	"math"
	"strconv"
	"strings"

	"loan-advisor/internal/advisory/session"
)

// FormatCurrency renders a whole-krone amount with the locale's grouping:
// "1 000 000 kr" in Norwegian, "1,000,000 NOK" in English.
func FormatCurrency(amount float64, lang session.Language) string {
	if lang == session.English {
		return group(amount, ",") + " NOK"
	}
	return group(amount, " ") + " kr"
}

func group(amount float64, sep string) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(d)
	}
	return b.String()
}

// Apology is the reply substituted when a message could not be answered.
func Apology(lang session.Language) string {
	if lang == session.English {
		return "I'm sorry, I encountered an error. Please try again."
	}
	return "Beklager, jeg støtte på en feil. Vennligst prøv igjen."
}

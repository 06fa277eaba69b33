//nolint:revive,nolintlint // I like this package name, leave me alone
package utils

import (
	"strconv"
	"strings"

	"github.com/yama6a/statement-scraper/internal/pkg/model"
)

func NormalizeSpaces(str string) string {
	str = strings.ReplaceAll(str, "&nbsp;", " ") // html non-breaking space
	str = strings.ReplaceAll(str, "\u00A0", " ") // no-break space
	str = strings.ReplaceAll(str, "\u0085", " ") // next line
	str = strings.ReplaceAll(str, "\u2009", " ") // thin space
	str = strings.ReplaceAll(str, "\u200A", " ") // hair space
	str = strings.ReplaceAll(str, "\u200B", " ") // zero-width space
	str = strings.ReplaceAll(str, "\u200C", " ") // zero-width non-joiner
	str = strings.ReplaceAll(str, "\u200D", " ") // zero-width joiner
	str = strings.ReplaceAll(str, "\uFEFF", " ") // zero-width non-breaking space
	str = strings.ReplaceAll(str, "\u202F", " ") // narrow no-break space
	str = strings.ReplaceAll(str, "\t", " ")     // tab
	str = strings.ReplaceAll(str, "\n", " ")     // newline
	str = strings.ReplaceAll(str, "\r", " ")     // carriage return
	str = strings.ReplaceAll(str, "\v", " ")     // vertical tab
	str = strings.ReplaceAll(str, "\f", " ")     // form feed
	str = strings.Join(strings.Fields(str), " ") // replace consecutive spaces with single space
	str = strings.TrimSpace(str)                 // remove leading and trailing spaces

	return str
}

// ParseNumeric turns scraped cell text into a number, or missing when the text is "-",
// empty, or not a float once commas, percent signs and surrounding whitespace are gone.
// Percent figures keep their face value: "12.5%" is 12.5, not 0.125.
func ParseNumeric(raw string) model.Value {
	if raw == "-" {
		return model.Missing()
	}

	str := strings.ReplaceAll(raw, ",", "")
	str = strings.ReplaceAll(str, "%", "")
	str = strings.TrimSpace(str)

	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return model.Missing()
	}

	return model.Number(f)
}

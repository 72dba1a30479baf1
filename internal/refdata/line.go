package refdata

import "regexp"

// linePatterns is the ordered match cascade for deriving a production line.
// The sheets are inconsistently formatted across vendors, so the code is
// tried pattern by pattern and the first hit wins.
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)-L(\d+)`),
	regexp.MustCompile(`(?i)LINE (\d+)`),
	regexp.MustCompile(`(?i)L(\d+)`),
}

// ExtractLine derives a production-line identifier ("L6") from a process
// code, falling back to the product name. It is best effort: any input,
// including empty strings, yields a string, and "" means unknown line.
func ExtractLine(processCode, productName string) string {
	for _, src := range []string{processCode, productName} {
		for _, re := range linePatterns {
			if m := re.FindStringSubmatch(src); m != nil {
				return "L" + m[1]
			}
		}
	}
	return ""
}

package compare

import (
	"fmt"
	"strings"
)

const sectionDelimiter = "---"

// FormatSummary turns the concatenated transformation output into the final
// report: sections split on the "---" delimiter, trimmed and re-spaced, every
// generic "Seller" reference replaced with the company's display name, and a
// report header on top. Text without any delimiter is returned unmodified
// rather than rejected.
func FormatSummary(transformed, companyName string) string {
	if companyName == "" {
		companyName = "Seller"
	}
	if !strings.Contains(transformed, sectionDelimiter) {
		return transformed
	}

	sections := strings.Split(transformed, sectionDelimiter)
	formatted := make([]string, 0, len(sections))
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		formatted = append(formatted, "\n"+substituteCompany(section, companyName)+"\n")
	}
	if len(formatted) == 0 {
		return transformed
	}

	header := fmt.Sprintf("=== CONTRACT ANALYSIS REPORT FOR %s ===\n", strings.ToUpper(companyName))
	return header + strings.Join(formatted, "\n")
}

// substituteCompany rewrites the generic "Seller" persona references with the
// caller's company name. The replacement is literal and case-sensitive, and
// covers the possessive form separately so "Seller's" keeps its apostrophe.
func substituteCompany(s, name string) string {
	if name == "Seller" {
		return s
	}
	s = strings.ReplaceAll(s, "Seller's", name+"'s")
	s = strings.ReplaceAll(s, "Seller ", name+" ")
	return s
}

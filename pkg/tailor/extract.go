package tailor

import (
	"regexp"
	"strings"
)

// ExtractionError indicates no structurally valid LaTeX document could
// be found in the model output.
type ExtractionError struct {
	// Raw is the model output that failed extraction.
	Raw string
}

func (e *ExtractionError) Error() string {
	return "no valid LaTeX content found in the output"
}

// Model output wraps the document in fenced code blocks with varying
// markers. Patterns are tried in priority order; the final pattern
// accepts unfenced text that itself starts a document, which makes
// extraction idempotent on its own output.
var extractPatterns = []*regexp.Regexp{
	// Markdown LaTeX block
	regexp.MustCompile(`(?is)` + "```" + `latex\s*(.*?)\s*` + "```"),
	// Generic code block opening with a documentclass declaration
	regexp.MustCompile(`(?is)` + "```" + `\s*(\\documentclass.*?)\s*` + "```"),
	// Alternate format with the latex keyword inside the fence
	regexp.MustCompile(`(?is)` + "```" + `\s*latex\s*(.*?)\s*` + "```"),
	// Generic code block containing a document-begin marker
	regexp.MustCompile(`(?is)` + "```" + `\s*(.*?\\begin\{document\}.*?)` + "```"),
	// No fence at all, but the text carries a document-start marker
	regexp.MustCompile(`(?is)((?:\\documentclass|\\begin\{document\}).*)`),
}

// latexIndicators are the structural tokens at least one of which must
// appear in an extracted span before it is accepted.
var latexIndicators = []string{
	`\documentclass`,
	`\begin{document}`,
	`\end{document}`,
	`\section`,
	`\subsection`,
	`\textbf`,
	`\textit`,
}

// ExtractDocument pulls a LaTeX document out of raw model output.
//
// Each pattern match must additionally contain at least one structural
// indicator before it is accepted; a generic fence can match arbitrary
// code, so a match without content evidence is rejected and the next
// pattern is tried. Fails with *ExtractionError when nothing qualifies.
func ExtractDocument(raw string) (string, error) {
	for _, pattern := range extractPatterns {
		match := pattern.FindStringSubmatch(raw)
		if match == nil {
			continue
		}
		content := strings.TrimSpace(match[1])
		if hasLatexIndicator(content) {
			return content, nil
		}
	}
	return "", &ExtractionError{Raw: raw}
}

func hasLatexIndicator(content string) bool {
	for _, indicator := range latexIndicators {
		if strings.Contains(content, indicator) {
			return true
		}
	}
	return false
}

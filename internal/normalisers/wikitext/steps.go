package wikitext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Step is a single named rewrite of the cleaning cascade.
type Step struct {
	Name  string
	Apply func(string) string
}

// MaxTemplatePasses bounds the template removal loop. Each pass removes the
// innermost {{...}} blocks, so nesting deeper than this survives.
const MaxTemplatePasses = 20

// Pre-compiled regular expressions, one per step.
var (
	trailingSections = regexp.MustCompile(
		`(?is)\n=+\s*(?:References|Citations|Sources|External links|See also|Notes|Further reading|Bibliography)\s*=+\n.*`)
	timelineLines = regexp.MustCompile(
		`(?m)^\s*(?:ImageSize|PlotArea|Period|TimeAxis|ScaleMajor|ScaleMinor|PlotData|DateFormat|Define|Legend|BarData|Colors).*$`)
	tableBlocks   = regexp.MustCompile(`(?s)\{\|.*?\|\}`)
	inlineTags    = regexp.MustCompile(`<[^>]+>`)
	innerTemplate = regexp.MustCompile(`\{\{[^{}]*?\}\}`)
	fileLinks     = regexp.MustCompile(`(?i)\[\[(?:File|Image):(?:[^\[\]]|\[\[[^\[\]]*\]\])*\]\]`)
	fileLines     = regexp.MustCompile(`(?m)^File:.*$`)
	categoryLinks = regexp.MustCompile(`\[\[Category:.*?\]\]`)
	internalLinks = regexp.MustCompile(`\[\[(?:[^|\]]+\|)?([^\]]+)\]\]`)
	externalLinks = regexp.MustCompile(`\[https?://.*?\]`)
	bareURLs      = regexp.MustCompile(`https?://\S+`)
	headings      = regexp.MustCompile(`(?m)^=+[ \t]*(.+?)[ \t]*=+[ \t]*$`)
	quoteRuns     = regexp.MustCompile(`''+`)
	bullets       = regexp.MustCompile(`(?m)^\*+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Steps is the cleaning cascade in the order it must run.
var Steps = []Step{
	{Name: "trailing_sections", Apply: replace(trailingSections, "\n")},
	{Name: "timeline", Apply: replace(timelineLines, "")},
	{Name: "tables", Apply: replace(tableBlocks, "")},
	{Name: "tags", Apply: replace(inlineTags, "")},
	{Name: "templates", Apply: stripTemplates},
	{Name: "file_links", Apply: replace(fileLinks, "")},
	{Name: "file_lines", Apply: replace(fileLines, "")},
	{Name: "category_links", Apply: replace(categoryLinks, "")},
	{Name: "internal_links", Apply: replace(internalLinks, "${1}")},
	{Name: "external_links", Apply: replace(externalLinks, "")},
	{Name: "bare_urls", Apply: replace(bareURLs, "")},
	{Name: "headings", Apply: replace(headings, "${1}")},
	{Name: "emphasis", Apply: replace(quoteRuns, "")},
	{Name: "bullets", Apply: replace(bullets, "")},
	{Name: "entities", Apply: html.UnescapeString},
	{Name: "blank_lines", Apply: replace(blankRuns, "\n\n")},
	{Name: "trim", Apply: strings.TrimSpace},
}

// Clean runs every step over text.
func Clean(text string) string {
	for _, step := range Steps {
		text = step.Apply(text)
	}
	return text
}

func replace(re *regexp.Regexp, repl string) func(string) string {
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

// stripTemplates removes innermost templates until a pass finds none or
// MaxTemplatePasses is reached.
func stripTemplates(s string) string {
	for i := 0; i < MaxTemplatePasses; i++ {
		if !innerTemplate.MatchString(s) {
			break
		}
		s = innerTemplate.ReplaceAllString(s, "")
	}
	return s
}

// StepByName returns the named step.
func StepByName(name string) (Step, bool) {
	for _, step := range Steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}

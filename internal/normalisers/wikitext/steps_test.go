package wikitext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyStep(t *testing.T, name, input string) string {
	t.Helper()
	step, ok := StepByName(name)
	require.True(t, ok, "step %s not registered", name)
	return step.Apply(input)
}

func TestSteps_Order(t *testing.T) {
	names := make([]string, 0, len(Steps))
	for _, s := range Steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"trailing_sections",
		"timeline",
		"tables",
		"tags",
		"templates",
		"file_links",
		"file_lines",
		"category_links",
		"internal_links",
		"external_links",
		"bare_urls",
		"headings",
		"emphasis",
		"bullets",
		"entities",
		"blank_lines",
		"trim",
	}, names)
}

func TestSteps(t *testing.T) {
	tests := []struct {
		name  string
		step  string
		input string
		want  string
	}{
		{
			name:  "drops trailing see also section",
			step:  "trailing_sections",
			input: "Intro text.\n== See also ==\n* [[Other]]\n",
			want:  "Intro text.\n",
		},
		{
			name:  "section match is case-insensitive",
			step:  "trailing_sections",
			input: "Body\n==references==\n<references/>\n== Later ==\nmore",
			want:  "Body\n",
		},
		{
			name:  "header without following newline is kept",
			step:  "trailing_sections",
			input: "Body\n== Notes ==",
			want:  "Body\n== Notes ==",
		},
		{
			name:  "removes timeline directives",
			step:  "timeline",
			input: "Intro\nImageSize = width:800\nPlotArea = left:50\nAfter",
			want:  "Intro\n\n\nAfter",
		},
		{
			name:  "removes table blocks",
			step:  "tables",
			input: "Before\n{| class=\"wikitable\"\n|-\n| a || b\n|}\nAfter",
			want:  "Before\n\nAfter",
		},
		{
			name:  "nested tables are stripped to the first close",
			step:  "tables",
			input: "A\n{| outer\n{| inner\n|}\nleft |}\nB",
			want:  "A\n\nleft |}\nB",
		},
		{
			name:  "removes inline tags",
			step:  "tags",
			input: "Text<ref name=\"x\"/> more<br>",
			want:  "Text more",
		},
		{
			name:  "removes nested templates from the inside out",
			step:  "templates",
			input: "A {{outer|{{inner|x}}}} B",
			want:  "A  B",
		},
		{
			name:  "removes file links with nested caption links",
			step:  "file_links",
			input: "Intro [[File:Map.png|thumb|Map of [[France]] and [[Spain]]]] end",
			want:  "Intro  end",
		},
		{
			name:  "file link prefix is case-insensitive",
			step:  "file_links",
			input: "x[[image:flag.jpg|left]]y",
			want:  "xy",
		},
		{
			name:  "removes bare file lines",
			step:  "file_lines",
			input: "File:Flag.svg|Flag caption\nProse",
			want:  "\nProse",
		},
		{
			name:  "removes category links",
			step:  "category_links",
			input: "Text[[Category:Bilateral relations of France]]",
			want:  "Text",
		},
		{
			name:  "keeps link labels and targets",
			step:  "internal_links",
			input: "[[Paris|the capital]] and [[Berlin]]",
			want:  "the capital and Berlin",
		},
		{
			name:  "removes bracketed external links",
			step:  "external_links",
			input: "See [https://example.org Example site] now",
			want:  "See  now",
		},
		{
			name:  "removes bare urls",
			step:  "bare_urls",
			input: "Visit https://example.org/page now",
			want:  "Visit  now",
		},
		{
			name:  "unwraps headings",
			step:  "headings",
			input: "== History ==\n===Early years===",
			want:  "History\nEarly years",
		},
		{
			name:  "leaves equals signs in prose alone",
			step:  "headings",
			input: "The formula E = mc2 was cited.\n== History ==\nText",
			want:  "The formula E = mc2 was cited.\nHistory\nText",
		},
		{
			name:  "removes emphasis quotes",
			step:  "emphasis",
			input: "'''Bold''' and ''italic''",
			want:  "Bold and italic",
		},
		{
			name:  "removes leading bullets",
			step:  "bullets",
			input: "* one\n** two\nnot * this",
			want:  " one\n two\nnot * this",
		},
		{
			name:  "decodes entities",
			step:  "entities",
			input: "A&nbsp;B &ndash; C &amp; D",
			want:  "A\u00a0B – C & D",
		},
		{
			name:  "collapses blank line runs",
			step:  "blank_lines",
			input: "a\n\n\n\nb\n\nc",
			want:  "a\n\nb\n\nc",
		},
		{
			name:  "trims surrounding whitespace",
			step:  "trim",
			input: "\n\n  body \n",
			want:  "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyStep(t, tt.step, tt.input))
		})
	}
}

func TestStripTemplates_Bounded(t *testing.T) {
	deep := strings.Repeat("{{", 25) + strings.Repeat("}}", 25)

	got := stripTemplates(deep)

	assert.Equal(t, strings.Repeat("{{", 25-MaxTemplatePasses)+strings.Repeat("}}", 25-MaxTemplatePasses), got)
}

func TestStepByName_Unknown(t *testing.T) {
	_, ok := StepByName("comments")
	assert.False(t, ok)
}

func TestClean_Scenario(t *testing.T) {
	input := "== History ==\n'''Bold''' text [[Paris|the capital]] {{cite|x}}"

	assert.Equal(t, "History\nBold text the capital", Clean(input))
}

func TestClean_Article(t *testing.T) {
	input := strings.Join([]string{
		"{{Infobox bilateral relations|Country1=France|Country2=Germany}}",
		"'''France–Germany relations''' are the [[Bilateral relations|bilateral relations]] between",
		"[[France]] and [[Germany]].<ref>{{cite web|url=https://example.org}}</ref>",
		"",
		"[[File:Elysee Treaty.jpg|thumb|Signing of the [[Élysée Treaty]]]]",
		"",
		"== History ==",
		"* The [[Élysée Treaty]] was signed in 1963&nbsp;in Paris.",
		"",
		"",
		"",
		"{| class=\"wikitable\"",
		"! Year !! Event",
		"|}",
		"",
		"== See also ==",
		"* [[Foreign relations of France]]",
		"[[Category:Bilateral relations of France]]",
	}, "\n")

	want := "France–Germany relations are the bilateral relations between\n" +
		"France and Germany.\n\n" +
		"History\n" +
		" The Élysée Treaty was signed in 1963\u00a0in Paris."

	assert.Equal(t, want, Clean(input))
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"The two countries established diplomatic relations in 1992.",
		"History\nBold text the capital",
		"== History ==\n'''Bold''' text [[Paris|the capital]] {{cite|x}}",
		"Intro [[File:Map.png|thumb|Map of [[France]]]] end\n\n\n\nMore text.",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestClean_PlainProseUnchanged(t *testing.T) {
	prose := "Relations between the two states improved after the 1990 summit.\n\nTrade doubled within a decade."

	assert.Equal(t, prose, Clean(prose))
}

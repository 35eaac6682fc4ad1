package view

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/result"
)

var (
	colorTrue  = lipgloss.Color("#8BC34A")
	colorFalse = lipgloss.Color("#e53935")
	colorMuted = lipgloss.Color("#9e9e9e")

	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
	trueStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorTrue)
	falseStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFalse)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Backend text is model output and occasionally carries markup
var stripMarkup = bluemonday.StrictPolicy()

// TerminalOptions controls terminal rendering
type TerminalOptions struct {
	Query   string
	ShowRaw bool // Append the raw payload
	NoColor bool
}

// Terminal renders a result for a terminal, every card expanded
func Terminal(r model.QueryResult, opts TerminalOptions) string {
	t := &terminal{opts: opts}

	if opts.Query != "" {
		t.line("%s %s", t.style(labelStyle, "Query:"), clean(opts.Query))
		t.blank()
	}

	switch r.Kind {
	case model.KindAnalyses:
		t.title(TitleResults)
		t.finalVerdict(r.FinalVerdict)
		t.cards(r.Analyses, true, analysisFallbacks)
	case model.KindClaims:
		t.title(TitleClaims)
		claims := make([]model.Analysis, 0, len(r.Claims))
		for i := range r.Claims {
			claims = append(claims, r.ClaimAt(i))
		}
		t.cards(claims, false, analysisFallbacks)
		t.finalVerdict(r.FinalVerdict)
	case model.KindArray:
		t.title(TitleResults)
		t.cards(r.Analyses, true, arrayFallbacks)
	default:
		t.line("%s", t.style(falseStyle, UnexpectedFormat))
		return t.sb.String()
	}

	if opts.ShowRaw {
		t.blank()
		t.line("%s", t.style(labelStyle, toggleRawData+":"))
		t.line("%s", result.Indent(r.Raw))
	}

	return t.sb.String()
}

type terminal struct {
	sb   strings.Builder
	opts TerminalOptions
}

func (t *terminal) style(s lipgloss.Style, text string) string {
	if t.opts.NoColor {
		return text
	}
	return s.Render(text)
}

func (t *terminal) line(format string, args ...any) {
	fmt.Fprintf(&t.sb, format+"\n", args...)
}

func (t *terminal) blank() {
	t.sb.WriteString("\n")
}

func (t *terminal) title(text string) {
	t.line("%s", t.style(titleStyle, text))
	t.blank()
}

func (t *terminal) verdict(label string) string {
	if model.IsAffirmative(label) {
		return t.style(trueStyle, "✓ True")
	}
	return t.style(falseStyle, "✗ False")
}

func (t *terminal) finalVerdict(fv *model.FinalVerdict) {
	if fv == nil {
		return
	}
	mark := "✗"
	style := falseStyle
	if model.IsAffirmative(fv.Label) {
		mark, style = "✓", trueStyle
	}
	t.line("%s %s", t.style(labelStyle, TitleFinalVerdict+":"), t.style(style, mark+" "+clean(fv.LabelText)))
	t.line("  %s", clean(orDefault(fv.Justification, NoFinalJustification)))
	t.blank()
}

// cardFallbacks are the texts shown for missing fields, which differ by result format
type cardFallbacks struct {
	justification string
	evidence      func(i int) string
}

var (
	analysisFallbacks = cardFallbacks{
		justification: NoJustification,
		evidence:      func(int) string { return UnknownSource },
	}
	arrayFallbacks = cardFallbacks{
		justification: NoReasoning,
		evidence:      func(i int) string { return "Evidence " + strconv.Itoa(i+1) },
	}
)

func (t *terminal) cards(analyses []model.Analysis, withEvidence bool, fb cardFallbacks) {
	if len(analyses) == 0 {
		t.line("%s", t.style(mutedStyle, NoResults))
		return
	}

	for i, a := range analyses {
		t.line("[%d] %s %s", i+1, t.style(labelStyle, "Claim:"), clean(orDefault(a.Claim, TitleClaimFallback)))
		t.line("    %s %s", t.style(labelStyle, "Verdict:"), t.verdict(a.Label))
		t.line("    %s %s", t.style(labelStyle, "Justification:"), clean(orDefault(a.Justification, fb.justification)))

		if withEvidence {
			if len(a.Evidence) == 0 {
				t.line("    %s %s", t.style(labelStyle, "Evidence:"), t.style(mutedStyle, NoEvidence))
			} else {
				t.line("    %s", t.style(labelStyle, "Evidence:"))
				for j, ev := range a.Evidence {
					t.line("      - Source: %s", clean(orDefault(ev.Name, fb.evidence(j))))
					if ev.Result != "" {
						t.line("        %s", t.style(mutedStyle, clean(ev.Result)))
					}
				}
			}
		}
		t.blank()
	}
}

// clean prepares backend text for the terminal. Only text made of real
// markup (known elements, each one closed or void) is stripped to its text;
// anything else, "x<y" included, is printed verbatim. Control characters are
// always dropped.
func clean(s string) string {
	if hasMarkup(s) {
		s = html.UnescapeString(stripMarkup.Sanitize(s))
	}
	return strings.TrimSpace(strings.Map(dropControl, s))
}

// hasMarkup reports whether s tokenizes into balanced, known HTML elements
func hasMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}

	z := xhtml.NewTokenizer(strings.NewReader(s))
	open := map[atom.Atom]int{}
	tags := 0
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if tags == 0 {
				return false
			}
			for _, n := range open {
				if n != 0 {
					return false
				}
			}
			return true
		case xhtml.StartTagToken:
			tok := z.Token()
			if tok.DataAtom == 0 {
				return false
			}
			tags++
			if !voidElements[tok.DataAtom] {
				open[tok.DataAtom]++
			}
		case xhtml.EndTagToken:
			tok := z.Token()
			if tok.DataAtom == 0 || open[tok.DataAtom] == 0 {
				return false
			}
			open[tok.DataAtom]--
		case xhtml.SelfClosingTagToken:
			if z.Token().DataAtom == 0 {
				return false
			}
			tags++
		}
	}
}

var voidElements = map[atom.Atom]bool{
	atom.Br:  true,
	atom.Hr:  true,
	atom.Img: true,
	atom.Wbr: true,
}

func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

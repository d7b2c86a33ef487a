package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// wordBreaks separate completable words: whitespace, member access, tag
// delimiters and marks, and the operators and quotes of both languages.
const wordBreaks = " \t.()[]{}+-*/%^<>=!@#&|,?:;\"'`"

func isWordBoundary(r rune) bool { return strings.ContainsRune(wordBreaks, r) }

// wordBounds returns the word containing cursor and its byte bounds. The
// word is empty when cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = strings.LastIndexFunc(input[:cursor], isWordBoundary) + 1

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBoundary); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain ending in a dot just before
// wordStart. For "x + server.http.ho" with the word "ho" it is
// "server.http". It is empty for a top-level word.
func parentPath(input string, wordStart int) string {
	prefix, ok := strings.CutSuffix(input[:wordStart], ".")
	if !ok {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	start := strings.LastIndexFunc(prefix, func(r rune) bool {
		return r != '.' && isWordBoundary(r)
	}) + 1

	return strings.TrimSpace(prefix[start:])
}

// childCandidates returns every visible name at the top level, or the
// members of the collection parent resolves to.
func childCandidates(scope Scope, parent string) []string {
	if parent == "" {
		return scope.Names()
	}

	return scope.Members(parent)
}

// computeMatches ranks the candidates for the word under the cursor. An
// empty word completes nothing at the top level, so the usage hint stays
// visible, and lists every member after a dot.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	var candidates []string

	switch {
	case m.mode == modeCtrl && word != "":
		candidates = commandNames()

	case m.mode == modeEval:
		parent := parentPath(m.input.Value(), start)
		if word == "" && parent == "" {
			break
		}

		candidates = childCandidates(m.session.Scope, parent)
		if word == "" {
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, start, end
		}
	}

	if len(candidates) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates), start, end
}

// refresh recomputes the candidates after the input changed. With confirm
// set, a word that already equals its sole candidate is treated as complete
// and the candidate list is dropped.
func (m *model) refresh(confirm bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.computeMatches()

	if !m.comp.cycling {
		m.comp.index = -1
	}

	if confirm && len(m.comp.matches) == 1 &&
		m.input.Value()[m.comp.start:m.comp.end] == m.comp.matches[0].Str {
		m.comp.matches = nil
	}
}

// candidateStyle renders the characters of one candidate.
type candidateStyle struct{ plain, hit lipgloss.Style }

var (
	candidateNormal   = candidateStyle{plain: suggestionStyle, hit: suggestionStyle.Bold(true)}
	candidateSelected = candidateStyle{plain: selectedStyle, hit: selectedStyle.Bold(true)}
)

// renderCandidateBar lays matches out on one line no wider than width,
// ending in an ellipsis when some do not fit.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	cycling bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	more := sep + hintStyle.Render("...")
	moreWidth := lipgloss.Width(more)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		item := renderCandidate(match, cycling && i == selected, isFunc(match.Str))
		if i > 0 {
			item = sep + item
		}

		need := lipgloss.Width(item)
		if i < len(matches)-1 {
			need += moreWidth
		}

		if i > 0 && used+need > width {
			b.WriteString(more)

			break
		}

		b.WriteString(item)

		used += lipgloss.Width(item)
	}

	return b.String()
}

// renderCandidate renders match with its matched characters emphasized.
// Functions get a "()" suffix that is not part of the completion.
func renderCandidate(match fuzzy.Match, selected, isFunction bool) string {
	style := candidateNormal
	if selected {
		style = candidateSelected
	}

	hits := match.MatchedIndexes

	var b strings.Builder

	for i, r := range match.Str {
		s := style.plain
		if len(hits) > 0 && hits[0] == i {
			s, hits = style.hit, hits[1:]
		}

		b.WriteString(s.Render(string(r)))
	}

	if isFunction {
		b.WriteString(style.plain.Render("()"))
	}

	return b.String()
}

package extract

import (
	"go/ast"
	"go/token"
	"regexp"
	"strings"
)

const (
	tagType              = "gqlType"
	tagField             = "gqlField"
	tagScalar            = "gqlScalar"
	tagInterface         = "gqlInterface"
	tagEnum              = "gqlEnum"
	tagUnion             = "gqlUnion"
	tagInput             = "gqlInput"
	tagContext           = "gqlContext"
	tagInfo              = "gqlInfo"
	tagQueryField        = "gqlQueryField"
	tagMutationField     = "gqlMutationField"
	tagSubscriptionField = "gqlSubscriptionField"
	tagDirective         = "gqlDirective"
	tagAnnotate          = "gqlAnnotate"
	tagImplements        = "gqlImplements"
	tagDeprecated        = "deprecated"
	tagKillsParent       = "killsParentOnException"
)

var knownTags = []string{
	tagType, tagField, tagScalar, tagInterface, tagEnum, tagUnion, tagInput, tagContext, tagInfo,
	tagQueryField, tagMutationField, tagSubscriptionField, tagDirective, tagAnnotate, tagImplements,
	tagDeprecated, tagKillsParent,
}

// Primary tags decide what a declaration becomes; at most one may appear.
var primaryTags = map[string]bool{
	tagType: true, tagField: true, tagScalar: true, tagInterface: true, tagEnum: true,
	tagUnion: true, tagInput: true, tagContext: true, tagInfo: true, tagQueryField: true,
	tagMutationField: true, tagSubscriptionField: true, tagDirective: true,
}

var (
	graphQLName = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)
	goDirective = regexp.MustCompile(`^[a-z0-9]+:[a-z0-9]`)
)

type tag struct {
	Name string
	// Text is the remainder of the tag's line.
	Text string
	Pos  token.Pos
}

// tagToken is any `@word` starting a comment line, recognized or not.
type tagToken struct {
	Word string
	Text string
	Pos  token.Pos
}

type docInfo struct {
	Description string
	Tags        []*tag
	// Invalid holds mis-cased and unknown gql tags.
	Invalid []*tagToken
}

func (d *docInfo) lookup(name string) *tag {
	for _, t := range d.Tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (d *docInfo) all(name string) []*tag {
	var out []*tag
	for _, t := range d.Tags {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

func (d *docInfo) primaries() []*tag {
	var out []*tag
	for _, t := range d.Tags {
		if primaryTags[t.Name] {
			out = append(out, t)
		}
	}
	return out
}

func (d *docInfo) hasGraphQLTags() bool {
	return len(d.Tags) > 0 || len(d.Invalid) > 0
}

// parseDoc splits a comment group into its description and tag lines.
func parseDoc(cg *ast.CommentGroup) *docInfo {
	info := &docInfo{}
	if cg == nil {
		return info
	}
	var lines []string
	for _, c := range cg.List {
		for _, ln := range commentLines(c) {
			tok, ok := scanTag(ln.text, ln.pos)
			if !ok {
				lines = append(lines, ln.text)
				continue
			}
			switch canonical, exact := classifyTag(tok.Word); {
			case exact:
				info.Tags = append(info.Tags, &tag{Name: canonical, Text: tok.Text, Pos: tok.Pos})
			case canonical != "" || strings.HasPrefix(strings.ToLower(tok.Word), "gql"):
				info.Invalid = append(info.Invalid, tok)
			default:
				// Not ours (e.g. @see); keep it as prose.
				lines = append(lines, ln.text)
			}
		}
	}
	info.Description = joinDescription(lines)
	return info
}

type commentLine struct {
	text string
	pos  token.Pos
}

func commentLines(c *ast.Comment) []commentLine {
	text := c.Text
	if strings.HasPrefix(text, "//") {
		body := text[2:]
		// Compiler directives such as //go:generate are not documentation.
		if goDirective.MatchString(body) {
			return nil
		}
		return []commentLine{{text: body, pos: c.Slash + 2}}
	}
	body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	var out []commentLine
	offset := 2
	for _, ln := range strings.Split(body, "\n") {
		trimmed := strings.TrimLeft(ln, " \t")
		lead := len(ln) - len(trimmed)
		if strings.HasPrefix(trimmed, "*") && !strings.HasPrefix(trimmed, "*/") {
			trimmed = trimmed[1:]
			lead++
		}
		out = append(out, commentLine{text: trimmed, pos: c.Slash + token.Pos(offset+lead)})
		offset += len(ln) + 1
	}
	return out
}

func scanTag(line string, pos token.Pos) (*tagToken, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "@") {
		return nil, false
	}
	at := pos + token.Pos(len(line)-len(trimmed))
	rest := trimmed[1:]
	end := 0
	for end < len(rest) && isWordByte(rest[end]) {
		end++
	}
	if end == 0 {
		return nil, false
	}
	return &tagToken{
		Word: rest[:end],
		Text: strings.TrimSpace(rest[end:]),
		Pos:  at,
	}, true
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// classifyTag returns the known tag matching word case-insensitively and whether
// the casing is exact.
func classifyTag(word string) (string, bool) {
	for _, known := range knownTags {
		if known == word {
			return known, true
		}
		if strings.EqualFold(known, word) {
			return known, false
		}
	}
	return "", false
}

func joinDescription(lines []string) string {
	for i, ln := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(ln, " "), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

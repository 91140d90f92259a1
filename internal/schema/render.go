package schema

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Render produces SDL from the document.
// Deterministic ordering: definitions sorted by kind then name, directives by name.
// Printing the parsed output again yields the same text.
func Render(doc *ast.SchemaDocument) string {
	if doc == nil {
		return ""
	}
	sorted := *doc
	sorted.Definitions = append(ast.DefinitionList(nil), doc.Definitions...)
	sorted.Directives = append(ast.DirectiveDefinitionList(nil), doc.Directives...)
	sortDocument(&sorted)

	var b strings.Builder
	formatter.NewFormatter(&b, formatter.WithIndent("  ")).FormatSchemaDocument(&sorted)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

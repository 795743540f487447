package diff

import (
	"strings"

	"github.com/lib/pq"
)

// Quoter is the quoting strategy generators use for every identifier, literal
// and pass-through fragment. Generators never branch on the render mode.
type Quoter interface {
	// Ident quotes an identifier
	Ident(name string) string
	// Literal quotes a string literal
	Literal(value string) string
	// Raw prepares text that is emitted verbatim (predicates, expressions)
	Raw(text string) string
}

type executableQuoter struct{}

// ExecutableQuoter quotes for direct execution
func ExecutableQuoter() Quoter {
	return executableQuoter{}
}

func (executableQuoter) Ident(name string) string {
	return pq.QuoteIdentifier(name)
}

func (executableQuoter) Literal(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (executableQuoter) Raw(text string) string {
	return text
}

type embeddedQuoter struct {
	inner Quoter
}

// EmbeddedQuoter quotes like ExecutableQuoter and then doubles every double
// quote character.
func EmbeddedQuoter() Quoter {
	return embeddedQuoter{inner: executableQuoter{}}
}

func (q embeddedQuoter) Ident(name string) string {
	return doubleQuotes(q.inner.Ident(name))
}

func (q embeddedQuoter) Literal(value string) string {
	return doubleQuotes(q.inner.Literal(value))
}

func (q embeddedQuoter) Raw(text string) string {
	return doubleQuotes(q.inner.Raw(text))
}

func doubleQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// qualifiedName renders "schema"."name"
func qualifiedName(q Quoter, schema, name string) string {
	return q.Ident(schema) + "." + q.Ident(name)
}

// relationLiteral renders the 'schema."name"' literal TimescaleDB functions take
// as their relation argument
func relationLiteral(q Quoter, schema, name string) string {
	return q.Literal(schema + "." + pq.QuoteIdentifier(name))
}

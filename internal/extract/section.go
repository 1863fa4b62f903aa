package extract

// SectionKind classifies an extracted section.
type SectionKind string

const (
	KindFunction  SectionKind = "function"
	KindMethod    SectionKind = "method"
	KindType      SectionKind = "type"
	KindClass     SectionKind = "class"
	KindInterface SectionKind = "interface"
	KindConst     SectionKind = "const"
	KindVar       SectionKind = "var"
	KindModule    SectionKind = "module"
	KindHeading   SectionKind = "heading"
)

// Section is one addressable unit of a file: a top-level or nested
// definition in source code, or a heading in a document. Lines are
// 1-based and inclusive.
type Section struct {
	Name      string
	Kind      SectionKind
	StartLine int
	EndLine   int
	// Depth is the nesting depth within enclosing sections. Top-level
	// sections have depth 0.
	Depth int
	// Signature is the declaration text without the body, for
	// interface-tier rendering.
	Signature string
	// Doc is the documentation comment or docstring attached to the
	// definition, when one exists.
	Doc string
	// Body is the full source text of the section.
	Body string
}

// Result is the outcome of extracting one file.
type Result struct {
	Sections []Section
	// Degraded is set when extraction fell back to treating the whole
	// file as one opaque section.
	Degraded bool
	// Diagnostic describes why extraction degraded, when it did.
	Diagnostic string
}

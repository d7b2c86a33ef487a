// Package exprlang adapts the expr-lang/expr expression engine to yfelo
// templates. Select it with a header such as {@yfelo expr}.
//
// Expressions are expr source text. The extent of an expression inside a
// tag is the longest prefix that parses, taken from the text before the
// first unbalanced closing bracket or line break outside a string. Patterns
// are identifiers or bracketed lists of patterns, as in [key, value].
//
// Values are plain Go values. Template functions defined with the def
// directive are callable from expressions and see the bindings of their
// caller.
package exprlang

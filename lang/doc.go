// Package lang implements the default yfelo expression language: a parser
// for expressions and binding patterns, a dynamically typed value model, and
// a scope chain of frames that evaluates expressions and runs template
// functions.
//
// # Grammar
//
// Informal EBNF, weakest binding first:
//
//	Expr     → Or
//	Or       → And ('||' And)*
//	And      → BitOr ('&&' BitOr)*
//	BitOr    → BitXor ('|' BitXor)*
//	BitXor   → BitAnd ('^' BitAnd)*
//	BitAnd   → Equal ('&' Equal)*
//	Equal    → Compare (('==' | '!=') Compare)*
//	Compare  → Shift (('<' | '<=' | '>' | '>=') Shift)*
//	Shift    → Sum (('<<' | '>>') Sum)*
//	Sum      → Product (('+' | '-') Product)*
//	Product  → Power (('*' | '/' | '%') Power)*
//	Power    → Unary ('**' Power)?
//	Unary    → ('!' | '+' | '-')* Postfix
//	Postfix  → Atom ('(' List ')' | '[' Expr ']' | '.' Ident)*
//	Atom     → Number | String | Ident | '[' List ']' | Object | '(' Expr ')'
//	Object   → '{' (Key (':' Expr)? (',' Key (':' Expr)?)* ','?)? '}'
//	Key      → Ident | String | Number
//
//	Pattern  → Ident | '[' Pattern, ... ']' | '{' Key (':' Pattern)?, ... '}'
//
// Strings use single or double quotes with the escapes \n, \r and \t; any
// other escaped character stands for itself. A postfix suffix or an infix
// operator whose operand does not parse ends the expression in front of it,
// leaving the rest to the caller.
//
// # Values
//
// Values are [Null], [Bool], [Number], [String], [*Array], [*Object],
// [*Closure] and [Func]. Arrays and objects are shared by reference.
// Objects keep insertion order.
//
// Arithmetic, comparison and bitwise operators take numbers; booleans count
// as 0 and 1. The + operator concatenates when either operand is a string.
// Equality compares primitives by value and collections by identity.
//
// # Scoping
//
// A [Context] is a frame holding its own bindings and a link to its parent.
// Names resolve outward from the innermost frame; true, false and null are
// reserved. A name may be bound once per frame, and a forked frame may
// shadow it. Template functions run in a fork of the caller's frame, so they
// see the bindings visible at the call site.
package lang

// Package tmpl parses and renders yfelo templates.
//
// A template is literal text interleaved with tags delimited by a pair of
// strings, "{" and "}" by default:
//
//	Hello, {name}!
//	{#if admin}root{:elif guest}nobody{:else}{name}{/if}
//	{#for item, i in items}{i}: {item}{/for}
//	{@def greeting = 'hi'}
//	{#def card(title, body = '')}<h1>{title}</h1>{body}{/def}
//	{@apply card('yfelo')}
//
// A tag whose interior begins with one of the marks '#', '/', '@' or ':'
// is a directive tag; any other tag interpolates an expression. Blocks open
// with '#', close with '/', branch with ':' and '@' marks a self-contained
// inline directive.
//
// The package is independent of any particular expression syntax. A
// [Language] parses the interior of tags and a [Context] evaluates the
// result, so the same directives work over several expression languages.
//
// # Whitespace
//
// A run of whitespace on the side of a text segment that meets a tag is
// removed when it contains a line break, so directives may sit on their own
// lines without leaking blank lines into the output. Text away from tags is
// copied unchanged.
//
// # Header
//
// A template may begin with "{@yfelo}" or "{@yfelo NAME}" to select the
// expression language registered under NAME. One line break after the
// header is dropped. Offsets in errors stay relative to the full source.
//
// # Directives
//
// Directives are created by a [Factory] registered in a [Registry]. The
// builtins are stub, if (with elif and else branches), for, def and apply.
// Custom directives implement [Directive] and are added with
// [WithDirective].
package tmpl

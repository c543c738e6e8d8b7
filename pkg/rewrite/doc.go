/*
Package rewrite applies ordered batches of textual rewrite rules to a string.

	+-----------+     +-----------+     +-----------+
	|  Matcher  | --> |   Guard   | --> | Producer  |
	| (spans)   |     | (veto)    |     | (replace) |
	+-----------+     +-----------+     +-----------+
	      \________________ Rule ________________/
	                        |
	               Batch (ordered rules)
	                        |
	               Apply -> Result + Report

🎯 Purpose:
- Turn "read a file, swap some strings, print a count" scripts into data
- Keep the transformation pure: content in, content and report out
- Make every rule idempotent and every count exact

🔄 Flow:
1. Each rule finds its spans in the current content (whole content or one line at a time)
2. Guards veto spans that already carry the rule's output
3. The producer builds the replacement for the remaining spans
4. The next rule sees the rewritten content

⚡ Matchers:
- Literal: exact substring, every occurrence
- LiteralFold: exact substring ignoring case
- Pattern: RE2 expression with numbered or named groups

⚡ Producers:
- Text: fixed replacement
- Template: $1, ${1}, ${name}, $$
- Func / FuncGroups: arbitrary function of the match

🛡️ Idempotence:
RE2 has no lookahead, so "only if not already rewritten" is expressed with an explicit Guard:
UnlessFollowedBy, UnlessFollowedByPattern, UnlessSegmentContains or a GuardFunc.
VerifyIdempotent checks the invariant for a given input.

🔍 Example:

	rule := rewrite.MustRule("menu-grid",
		rewrite.Literal("xl:grid-cols-5 2xl:grid-cols-6"),
		rewrite.Text("xl:grid-cols-6"),
	)
	batch, _ := rewrite.NewBatch("menu", rule)
	res, err := rewrite.Apply(ctx, content, batch)
*/
package rewrite

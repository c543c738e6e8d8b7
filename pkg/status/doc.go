/*
Package status tracks where a rewrite invocation is and formats what it did.

	Idle -> Reading -> Transforming -> Writing -> Done
	           \            \             \
	            +------------+-------------+--> Failed

🎯 Purpose:
- Names the phases of a single invocation and the legal moves between them
- Names the outcome of an invocation (unchanged, modified, pending, failed)
- Renders per-target and per-rule report lines for the console

📝 Notes:
Nothing here is persisted. A Phase lives for one invocation and the report lines are
advisory output only; no other component parses them.
*/
package status

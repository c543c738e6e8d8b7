/*
Package operation runs rewrite batches against stored resources.

	+----------+     +-----------+     +----------+
	|  Store   | --> |  rewrite  | --> |  Store   |
	|  (Read)  |     |  (Apply)  |     | (Write)  |
	+----------+     +-----------+     +----------+

🎯 Purpose:
- Owns the I/O around the pure rewrite engine
- Tracks each invocation through its phases
- Runs many targets without two of them touching the same file at once

🔄 Phases:

	Idle -> Reading -> Transforming -> Writing -> Done
	                        \------------------> Done (unchanged or dry-run)
	Reading, Transforming, Writing -> Failed

A failed invocation writes nothing. Unchanged content is never written back, so
repeated runs leave file timestamps alone.

🔍 Example:

	runner, err := operation.NewRunner(operation.Options{Store: store})
	out, err := runner.Run(ctx, operation.Target{Path: "App.tsx", Batch: batch})
	fmt.Println(out.Outcome, out.Report.Total())
*/
package operation

package rewrite_test

import (
	"context"
	"fmt"

	"github.com/walteh/rewriterc/pkg/rewrite"
)

func ExampleApply() {
	// Define the rules, in order
	batch, err := rewrite.NewBatch("menu",
		rewrite.MustRule("menu-grid",
			rewrite.Literal("xl:grid-cols-5 2xl:grid-cols-6"),
			rewrite.Text("xl:grid-cols-6"),
		),
		rewrite.MustRule("accent-color",
			rewrite.LiteralFold("#a6bba1"),
			rewrite.Text("#A72020"),
		),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Apply them
	result, err := rewrite.Apply(context.Background(), `<div className="grid xl:grid-cols-5 2xl:grid-cols-6 text-[#A6BBA1]">`, batch)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Print results
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	for _, rr := range result.Report.Rules {
		fmt.Printf("%s: %d\n", rr.Rule, rr.Matches)
	}
	fmt.Printf("Total: %d\n", result.Report.Total())

	// Output:
	// Modified: <div className="grid xl:grid-cols-6 text-[#A72020]">
	// menu-grid: 1
	// accent-color: 1
	// Total: 2
}

func ExampleUnlessFollowedBy() {
	rule := rewrite.MustRule("font-size",
		rewrite.Literal(`<span className="font-semibold"`),
		rewrite.Text(`<span className="font-semibold" style={{fontSize: 'calc(1em + 3px)'}}`),
		rewrite.WithGuards(rewrite.UnlessFollowedBy(` style={{`)),
	)
	batch, _ := rewrite.NewBatch("titles", rule)

	first, _ := rewrite.Apply(context.Background(), `<span className="font-semibold">Cheese</span>`, batch)
	second, _ := rewrite.Apply(context.Background(), first.ModifiedContent, batch)

	fmt.Println(first.ModifiedContent)
	fmt.Println(first.Report.Total(), second.Report.Total(), second.WasModified)

	// Output:
	// <span className="font-semibold" style={{fontSize: 'calc(1em + 3px)'}}>Cheese</span>
	// 1 0 false
}

func ExampleTemplate() {
	rule := rewrite.MustRule("swap",
		rewrite.MustPattern(`(?P<key>\w+)=(?P<value>\w+)`),
		rewrite.Template("${value}=${key} costs $$1"),
	)
	batch, _ := rewrite.NewBatch("swap", rule)

	result, _ := rewrite.Apply(context.Background(), "a=b", batch)
	fmt.Println(result.ModifiedContent)

	// Output:
	// b=a costs $1
}

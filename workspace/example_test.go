package workspace_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/matinspect/workspace"
)

// ExampleWorkspace paints a 2×2 K, computes S_left*K*S_right with identity
// side factors and asks where O(0,1) came from.
func ExampleWorkspace() {
	w := workspace.New(
		workspace.WithConfig(workspace.Config{Rows: 2, Cols: 2}),
		workspace.WithFormula("S_left*K*S_right"),
	)
	_ = w.FillIdentity("S_left")
	_ = w.FillIdentity("S_right")
	_ = w.Paint("K", 0, 1, 1, "#E07A5F")

	if _, err := w.Recompute(context.Background()); err != nil {
		fmt.Println(err)
		return
	}
	o, _ := w.Dense("O")
	fmt.Print(o)

	c, _ := w.Element("O", 0, 1)
	fmt.Println(len(c.Dependencies))
	// Output:
	// [0, 1]
	// [0, 0]
	// 1
}

package exprlang_test

import (
	"context"
	"fmt"

	"github.com/ardnew/yfelo/exprlang"
)

func ExampleRender() {
	c := exprlang.NewContext(exprlang.WithVars(map[string]any{
		"langs": []any{"go", "rust", "zig"},
	}))

	out, err := exprlang.Render(context.Background(),
		"{#for l, i in filter(langs, # != 'rust')}{i > 0 ? ', ' : ''}{upper(l)}{/for}", c)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	// Output: GO, ZIG
}

func ExampleEval() {
	v, err := exprlang.Eval("{sum: 1 + 2, list: [true, nil, 'x']}", exprlang.NewContext())
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(v)
	// Output: {list: [true, nil, "x"], sum: 3}
}

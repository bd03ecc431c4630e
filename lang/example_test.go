package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/expand/lang"
)

func ExampleConfig_ExpandString() {
	ctx := context.Background()

	c := lang.New(
		lang.WithWorkingDir("/src/demo"),
		lang.WithOpener(lang.MapOpener{
			"config": "GREETING=hello\nweb:Host(NAME=alpha)\nHost(NAME=beta)\n",
		}),
	)

	if err := c.ReadConfig(ctx, "config", nil); err != nil {
		fmt.Println(err)

		return
	}

	out, err := c.ExpandString(ctx,
		"$$GREETING from $$DIRNAME\n$$LOOP(Host)\n- $$NAME\n$$ENDLOOP(Host)\n")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Print(out)
	// Output:
	// hello from demo
	// - alpha
	// - beta
}

func ExampleConfig_Format() {
	ctx := context.Background()

	c := lang.New(lang.WithOpener(lang.MapOpener{
		"config": "INSTANCE Disk boot\nSIZE 512\nINSTANCE Disk\nSIZE=4096\n",
	}))

	if err := c.ReadConfig(ctx, "config", nil); err != nil {
		fmt.Println(err)

		return
	}

	_ = c.Format(ctx, os.Stdout, 0)
	// Output:
	// boot:Disk(SIZE="512")
	// Disk(SIZE="4096")
}

func ExampleEval() {
	lookup := lang.Vars{"BASE": "0x10"}.Lookup

	v, err := lang.Eval("(BASE + 2) * 3 // 4", lookup)
	fmt.Println(v, err)
	// Output:
	// 13 <nil>
}

func ExampleParseAssignment() {
	name, value, ok := lang.ParseAssignment(`  TARGET "release build"`)
	fmt.Printf("%s=%q %v\n", name, value, ok)
	// Output:
	// TARGET="release build" true
}

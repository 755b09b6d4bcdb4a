package styx_test

import (
	"fmt"

	"github.com/softdevca/styx"
)

func ExampleBuildFromSource() {
	v, errs := styx.BuildFromSource("name \"Alice\"\n")
	fmt.Println(len(errs))
	name, _ := v.Get("name")
	text, _ := name.AsString()
	fmt.Println(text)
	// Output:
	// 0
	// Alice
}

func ExampleFormatValue() {
	v := styx.Object(
		styx.Field("title", styx.String("My App")),
	)
	fmt.Print(styx.FormatValue(v, styx.DefaultFormatOptions()))
	// Output:
	// title "My App"
}

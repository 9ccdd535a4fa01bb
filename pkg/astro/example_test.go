package astro_test

import (
	"fmt"

	"github.com/matzehuels/jyotish/pkg/astro"
)

func ExampleNakshatraOf() {
	n, pada, _ := astro.NakshatraOf(7.0)
	fmt.Println(n, pada, n.Lord())
	// Output:
	// Ashwini 3 Ketu
}

func ExampleSign_HouseFrom() {
	fmt.Println(astro.Leo.HouseFrom(astro.Aries))
	// Output:
	// 5
}

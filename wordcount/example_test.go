package wordcount_test

import (
	"fmt"
	"strings"

	"github.com/joshuapare/wordfreq/wordcount"
)

func ExampleCounter_Scan() {
	c, err := wordcount.Open(0)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	_ = c.Scan([]byte("apple banana apple cherry apple banana"))

	res, _ := c.Results()
	for _, r := range res {
		fmt.Println(r.Word, r.Count)
	}
	fmt.Println("total", c.Total(), "unique", c.Unique())
	// Output:
	// apple 3
	// banana 2
	// cherry 1
	// total 6 unique 3
}

func ExampleOpenWithLimits_static() {
	buf := make([]byte, 8192)
	c, err := wordcount.OpenWithLimits(0, &wordcount.Limits{StaticBuffer: buf})
	if err != nil {
		panic(err)
	}
	defer c.Close()

	_ = c.Scan([]byte("to be or not to be"))
	top, _ := c.Top(2)
	fmt.Println(top)
	fmt.Println(c.Stats().Static)
	// Output:
	// [{be 2} {to 2}]
	// true
}

func ExampleCounter_ReadFrom() {
	c, _ := wordcount.Open(0)
	defer c.Close()

	_, _ = c.ReadFrom(strings.NewReader("Stream, stream, STREAM!"))
	top, _ := c.Top(1)
	fmt.Println(top[0].Word, top[0].Count)
	// Output:
	// stream 3
}

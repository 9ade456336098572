// Command wordfreq counts word frequencies in files or standard input.
package main

import "os"

func main() {
	os.Exit(execute())
}

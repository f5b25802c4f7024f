// Command plox runs Lox programs: no arguments starts a REPL, one
// argument runs that file once, and more than one argument is a usage
// error (spec.md §6).
package main

import "os"

func main() {
	os.Exit(Execute())
}

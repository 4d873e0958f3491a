// Command jeeves is the command-line front end of the jeeves record store.
package main

import "github.com/mesh-intelligence/jeeves/internal/cli"

func main() {
	cli.Execute()
}

// Command vellum runs the headless content-management backend.
package main

import "github.com/vellumhq/vellum/internal/cli"

func main() {
	cli.Execute()
}

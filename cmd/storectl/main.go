package main

import "github.com/thriftwear/storefront/cmd/storectl/cmd"

func main() {
	cmd.Execute()
}

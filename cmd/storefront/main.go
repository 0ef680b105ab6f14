package main

import "github.com/pikacards/storefront/cmd/storefront/cmd"

func main() {
	cmd.Execute()
}

package cmd

import (
	"fmt"
)

const banner = `
  ____  _ _         ____              _
 |  _ \(_) | ____ _/ ___|__ _ _ __ __| |___
 | |_) | | |/ / _` + "`" + ` | |   / _` + "`" + ` | '__/ _` + "`" + ` / __|
 |  __/| |   < (_| | |__| (_| | | | (_| \__ \
 |_|   |_|_|\_\__,_|\____\__,_|_|  \__,_|___/

`

func printBanner() {
	fmt.Printf("\x1b[33m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  PikaCards Storefront - Version %s\x1b[0m\n\n", Version)
}

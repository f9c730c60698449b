package main

import (
	"validatorOps/internal/cli"
	"validatorOps/internal/cmd/genpw"
)

func main() {
	cli.Run(genpw.NewCommand())
}

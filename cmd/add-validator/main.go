package main

import (
	"validatorOps/internal/cli"
	"validatorOps/internal/cmd/addvalidator"
)

func main() {
	cli.Run(addvalidator.NewCommand())
}

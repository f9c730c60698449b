package main

import (
	"validatorOps/internal/cli"
	"validatorOps/internal/cmd/createjwt"
)

func main() {
	cli.Run(createjwt.NewCommand())
}

package main

import (
	"validatorOps/internal/cli"
	"validatorOps/internal/cmd/createsecret"
)

func main() {
	cli.Run(createsecret.NewCommand())
}

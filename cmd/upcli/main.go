package main

import (
	"github.com/service-sdk/upcli/cli"
)

func main() {
	cli.Execute()
}

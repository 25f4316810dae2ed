package main

import "github.com/andrescamacho/cargoplanner-go/internal/adapters/cli"

func main() {
	cli.Execute()
}

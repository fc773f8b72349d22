package main

import "github.com/dyike/ForecastGo/internal/cli"

func main() {
	cli.Run()
}

package main

import (
	"go.uber.org/fx"

	"freee-deals/internal/service"
)

func main() {
	fx.New(service.Modules).Run()
}

package main

import (
	"github.com/kashan660/sellaap-orders/internal/app"
	"github.com/kashan660/sellaap-orders/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}

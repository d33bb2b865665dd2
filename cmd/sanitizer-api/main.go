package main

import (
	"typesanitizer/internal/api/handler"
	"typesanitizer/pkg/app"
	"typesanitizer/pkg/config"
	_ "typesanitizer/pkg/model" // registers Contact and Form
	"typesanitizer/pkg/sanitizer"
)

const ServiceName = "sanitizer-api"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Sanitizer API service")
	s := initSanitizer(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(s.Registry(), cfg.Log),
		handler.NewSanitizeHandler(s, cfg.Log),
	)
	serverApp.Run()
}

func initSanitizer(cfg *config.Config) *sanitizer.Sanitizer {
	s := sanitizer.New(cfg.SanitizerOptions()...)

	cfg.Log.Info("Sanitizer initialized",
		"policy", s.Policy().String(),
		"types", s.Registry().Names(),
	)
	return s
}

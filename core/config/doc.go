// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/pinakinmistry/reactive-patterns-using-rxjs/core/config"
//
//	type AppConfig struct {
//		PageSize int    `env:"PAGE_SIZE" envDefault:"10"`
//		Source   string `env:"LESSONS_SOURCE" envDefault:"memory"`
//	}
//
//	func main() {
//		var app AppConfig
//
//		// Load with error handling
//		if err := config.Load(&app); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&app)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 AppConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 AppConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	// Each type has its own cache entry
//	config.MustLoad(&logger.Config{})
//	config.MustLoad(&redis.Config{})
package config

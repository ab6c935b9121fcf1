// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Struct fields are annotated with `env` tags understood by
// github.com/caarlos0/env; .env files are read via
// github.com/joho/godotenv.
//
//	type AppConfig struct {
//		Namespace string `env:"CONFSYNC_NAMESPACE,required"`
//		Debug     bool   `env:"DEBUG" envDefault:"false"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config

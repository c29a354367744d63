// Package config loads and validates client connection settings.
//
// Settings come from defaults, a YAML file or NEBULA_-prefixed environment
// variables, optionally read from dotenv files:
//
//	environ, err := config.ReadEnvFiles(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.FromEnv(environ)
//
// A client reads its settings once, when it is constructed.
package config

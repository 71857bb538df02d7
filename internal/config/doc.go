// Package config loads the server configuration with viper from an optional
// config.yaml and GLOSSA_* environment variables, applies defaults and
// validates the result with struct tags.
package config

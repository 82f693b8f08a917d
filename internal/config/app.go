package config

import (
	"os"
	"strings"
)

const defaultPort = "8080"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Addr returns the listen address built from APP_PORT.
func Addr() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		port = defaultPort
	}
	return ":" + port
}

// AllowedOrigins reads the comma separated APP_ALLOWED_ORIGINS list. An
// empty result means any origin is accepted.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("APP_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

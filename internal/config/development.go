package config

import "os"

// Development switches logging to human readable output.
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	return ok && development != "" && development != "0"
}

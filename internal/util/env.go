package util

import "os"

// EnvOrDefault returns the value of the environment variable, or
// fallback when the variable is unset or empty. Flag defaults are fed
// from here so TASKAPI_* variables and flags stay interchangeable.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

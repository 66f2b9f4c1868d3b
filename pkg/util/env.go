package util

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// LoadEnv loads ".env.<env>" then ".env" from the working directory.
// Variables already present in the process environment are not overridden.
func LoadEnv(env string) error {
	var firstErr error
	for _, name := range []string{".env." + env, ".env"} {
		if err := loadEnvFile(name); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func loadEnvFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetIntEnv(key string) int64 {
	return cast.ToInt64(os.Getenv(key))
}

func GetBoolEnv(key string) bool {
	return cast.ToBool(os.Getenv(key))
}

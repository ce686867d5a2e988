package config

import "os"

type Config struct {
	Port      string
	LogLevel  string
	WordsFile string // empty means the embedded word list
}

func FromEnv() Config {
	return Config{
		Port:      getenv("PORT", "8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		WordsFile: os.Getenv("WORDS_FILE"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

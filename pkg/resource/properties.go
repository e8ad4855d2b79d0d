package resource

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	mu         sync.RWMutex
	properties = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// Init loads application properties from a YAML file.
func Init(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("fail to read properties %s: %w", filepath, err)
	}
	return Load(data)
}

// Load replaces the current properties with the YAML document in data.
// String values of the form ${ENV} or ${ENV:default} are resolved against the environment.
func Load(data []byte) error {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("fail to parse properties: %w", err)
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)
	for key, value := range resolved {
		v.Set(key, value)
	}

	mu.Lock()
	properties = v
	mu.Unlock()
	return nil
}

// parsePropertiesMap flattens the YAML tree into dotted keys, resolving env placeholders
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			result[fullKey] = v
		}
	}
}

// resolveEnvVariable substitutes every ${ENV:default} occurrence in value
func resolveEnvVariable(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(token string) string {
		matches := envPattern.FindStringSubmatch(token)
		if envValue, exists := os.LookupEnv(matches[1]); exists {
			return envValue
		}
		return matches[2]
	})
}

func get() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	return properties
}

// SetDefault registers a fallback used when a key is missing from the loaded file.
func SetDefault(key string, value any) {
	get().SetDefault(key, value)
}

func IsSet(key string) bool {
	return get().IsSet(key)
}

func Get(key string) any {
	return get().Get(key)
}

func GetString(key string) string {
	return get().GetString(key)
}

func GetBool(key string) bool {
	return get().GetBool(key)
}

func GetDuration(key string) time.Duration {
	return get().GetDuration(key)
}

func GetInt(key string) int {
	return get().GetInt(key)
}

func GetInt64(key string) int64 {
	return get().GetInt64(key)
}

func GetStringSlice(key string) []string {
	return get().GetStringSlice(key)
}

package msg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	mu       sync.RWMutex
	messages = map[string]string{}
)

// Init loads messages from a YAML file.
func Init(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("fail to read messages %s: %w", filepath, err)
	}
	return Load(data)
}

// Load replaces the message catalogue with the YAML document in data.
func Load(data []byte) error {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("fail to parse messages: %w", err)
	}

	loaded := make(map[string]string)
	parseMessageMap("", v.AllSettings(), loaded)

	mu.Lock()
	messages = loaded
	mu.Unlock()
	return nil
}

// parseMessageMap reads the yml tree recursively into dotted keys
func parseMessageMap(prefix string, data map[string]interface{}, result map[string]string) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]interface{}:
			parseMessageMap(fullKey, v, result)
		}
	}
}

// GetMessage returns the message for key with {0}, {1}... replaced by args
func GetMessage(key string, args ...interface{}) string {
	mu.RLock()
	msg, exists := messages[key]
	mu.RUnlock()
	if !exists {
		return fmt.Sprintf("Message not found: %s", key)
	}

	for i, arg := range args {
		placeholder := fmt.Sprintf("{%d}", i)
		msg = strings.ReplaceAll(msg, placeholder, argToString(arg))
	}

	return msg
}

func argToString(arg interface{}) string {
	if arg == nil {
		return ""
	}
	if err, ok := arg.(error); ok {
		return err.Error()
	}
	if stringer, ok := arg.(fmt.Stringer); ok {
		return stringer.String()
	}
	if isPrimitive(arg) {
		return primitiveToString(arg)
	}

	jsonBytes, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(jsonBytes)
}

// isPrimitive checks if the provided value is of a primitive kind
func isPrimitive(value interface{}) bool {
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	default:
		return false
	}
}

func primitiveToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

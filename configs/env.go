package configs

import (
	_ "embed"
	"fmt"

	"github.com/spf13/viper"

	"city-weather/pkg/msg"
	"city-weather/pkg/resource"
)

//go:embed application.yml
var applicationProperties []byte

//go:embed messages.yml
var applicationMessages []byte

type EnvConfig struct {
	PropertiesFilePath string
	MessagesFilePath   string
}

// LoadEnv reads the process level settings from the environment.
func LoadEnv() *EnvConfig {
	v := viper.New()
	v.AutomaticEnv()

	return &EnvConfig{
		PropertiesFilePath: v.GetString("PROPERTIES_FILE_PATH"),
		MessagesFilePath:   v.GetString("MESSAGES_FILE_PATH"),
	}
}

// Load initializes application properties and messages. Files named by the
// environment win over the embedded defaults.
func Load(env *EnvConfig) error {
	var err error
	if env.PropertiesFilePath != "" {
		err = resource.Init(env.PropertiesFilePath)
	} else {
		err = resource.Load(applicationProperties)
	}
	if err != nil {
		return fmt.Errorf("properties: %w", err)
	}

	if env.MessagesFilePath != "" {
		err = msg.Init(env.MessagesFilePath)
	} else {
		err = msg.Load(applicationMessages)
	}
	if err != nil {
		return fmt.Errorf("messages: %w", err)
	}
	return nil
}

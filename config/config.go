package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AgentConfiguration holds the environment-driven settings for one sync run.
type AgentConfiguration struct {
	ServerURL  string
	BaseDN     string
	Filter     string
	Attributes []string
	Username   string
	Password   string
	LogLevel   string
}

// LoadEnvConfig reads configuration from an env file and the process
// environment. A missing file is not an error; the process environment alone
// may carry everything.
func LoadEnvConfig(configName string) AgentConfiguration {
	_ = godotenv.Load(configName)

	var attributes []string
	for _, name := range strings.Split(os.Getenv("LDAP_ATTRIBUTES"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			attributes = append(attributes, name)
		}
	}

	return AgentConfiguration{
		ServerURL:  os.Getenv("LDAP_URL"),
		BaseDN:     os.Getenv("LDAP_BASEDN"),
		Filter:     os.Getenv("LDAP_FILTER"),
		Attributes: attributes,
		Username:   os.Getenv("LDAP_USERNAME"),
		Password:   os.Getenv("LDAP_PASSWORD"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
	}
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvConfigFromProcessEnvironment(t *testing.T) {
	t.Setenv("LDAP_URL", "ldaps://directory.example.com:636")
	t.Setenv("LDAP_BASEDN", "ou=people,dc=example,dc=com")
	t.Setenv("LDAP_FILTER", "(objectClass=person)")
	t.Setenv("LDAP_ATTRIBUTES", "cn, mail ,memberOf")
	t.Setenv("LDAP_USERNAME", "cn=reader,dc=example,dc=com")
	t.Setenv("LDAP_PASSWORD", "secret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := LoadEnvConfig("does-not-exist.env")

	assert.Equal(t, "ldaps://directory.example.com:636", cfg.ServerURL)
	assert.Equal(t, "ou=people,dc=example,dc=com", cfg.BaseDN)
	assert.Equal(t, "(objectClass=person)", cfg.Filter)
	assert.Equal(t, []string{"cn", "mail", "memberOf"}, cfg.Attributes)
	assert.Equal(t, "cn=reader,dc=example,dc=com", cfg.Username)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadEnvConfigWithEmptyEnvironment(t *testing.T) {
	t.Setenv("LDAP_URL", "")
	t.Setenv("LDAP_ATTRIBUTES", "")

	cfg := LoadEnvConfig("does-not-exist.env")

	assert.Empty(t, cfg.ServerURL)
	assert.Nil(t, cfg.Attributes)
}

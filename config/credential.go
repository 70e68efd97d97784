package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Credential resolves the upstream API key. The value is looked up in the
// environment on every call and never stored.
type Credential struct {
	v *viper.Viper
}

// NewCredential binds a Credential to the named environment variable.
func NewCredential(envName string) *Credential {
	v := viper.New()
	_ = v.BindEnv("api_key", envName)
	return &Credential{v: v}
}

// APIKey returns the current key, or "" if the variable is unset or blank.
func (c *Credential) APIKey() string {
	return strings.TrimSpace(c.v.GetString("api_key"))
}

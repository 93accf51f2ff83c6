package config

import "time"

type SecurityConfig interface {
	GetSessionMaxAge() time.Duration
	GetSecureCookies() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionMaxAge() time.Duration {
	return 7 * 24 * time.Hour // 7 days, same as the token expiry
}

func (Security) GetSecureCookies() bool {
	return EnvVars{}.GetEnv() == "PROD"
}

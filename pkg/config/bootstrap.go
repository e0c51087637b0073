package config

// BootstrapConfig contains the default admin account created at startup.
// The password is hashed before storage and is never served back.
type BootstrapConfig struct {
	AdminUsername string `env:"ADMIN_USERNAME" env-default:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" env-default:"admin123"`
}

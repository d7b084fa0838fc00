package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Digest of the default administrator password "admin123". Override with
// ATM_ADMIN_PASSWORD_HASH in any real deployment.
const defaultAdminDigest = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"

// Config carries everything the process needs: where the record store and
// journals live, the admin secret digest, and whether to seed demo accounts
// on first run.
type Config struct {
	DataDir           string
	AccountsFile      string
	JournalDir        string
	AdminPasswordHash string
	SeedDemoAccounts  bool
}

// Load reads configuration from an optional .env file with environment
// variables taking precedence.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // .env is optional

	viper.BindEnv("data.dir", "ATM_DATA_DIR")
	viper.BindEnv("data.accounts_file", "ATM_ACCOUNTS_FILE")
	viper.BindEnv("data.journal_dir", "ATM_JOURNAL_DIR")
	viper.BindEnv("admin.password_hash", "ATM_ADMIN_PASSWORD_HASH")
	viper.BindEnv("seed.demo_accounts", "ATM_SEED_DEMO_ACCOUNTS")

	viper.SetDefault("data.dir", ".")
	viper.SetDefault("data.accounts_file", "accounts.dat")
	viper.SetDefault("data.journal_dir", "")
	viper.SetDefault("admin.password_hash", defaultAdminDigest)
	viper.SetDefault("seed.demo_accounts", true)

	cfg := &Config{
		DataDir:           viper.GetString("data.dir"),
		AccountsFile:      viper.GetString("data.accounts_file"),
		JournalDir:        viper.GetString("data.journal_dir"),
		AdminPasswordHash: viper.GetString("admin.password_hash"),
		SeedDemoAccounts:  viper.GetBool("seed.demo_accounts"),
	}
	if cfg.JournalDir == "" {
		cfg.JournalDir = cfg.DataDir
	}
	return cfg
}

// AccountsPath is the full path of the record store file.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.DataDir, c.AccountsFile)
}

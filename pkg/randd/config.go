package randd

import (
	"flag"

	"github.com/spf13/viper"

	"randkit-go/pkg/aesctr"
)

type Config struct {
	APIListenAddr   string `mapstructure:"api_listen_address"`
	Generator       string `mapstructure:"generator"`
	SeedHex         string `mapstructure:"seed_hex"`
	SeedSize        int    `mapstructure:"seed_size"`
	LogDB           string `mapstructure:"log_db"`
	EnableMgmt      bool   `mapstructure:"enable_management"`
	MgmtPassword    string `mapstructure:"management_password"`
	MaxRequestBytes int    `mapstructure:"max_request_bytes"`
	ConfigFile      string `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		APIListenAddr:   ":7781",
		Generator:       GeneratorAESCTR,
		SeedSize:        aesctr.DefaultSeedSize,
		LogDB:           "randd.db",
		EnableMgmt:      true,
		MaxRequestBytes: 1 << 24,
		ConfigFile:      "randd.yaml",
	}
}

// LoadConfig loads configuration from file, environment, and flags, in that
// order of precedence.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName(cfg.ConfigFile)   // name of config file (without extension)
	viper.SetConfigType("yaml")           // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")              // look for config in the working directory
	viper.AddConfigPath("/etc/randkit/")  // path to look for the config file in
	viper.AddConfigPath("$HOME/.randkit") // call multiple times to add many search paths
	viper.SetEnvPrefix("RANDKIT")         // will be uppercased automatically, RANDKIT_...
	viper.AutomaticEnv()                  // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; ignore error if desired
	}

	// Bind command-line flags to Viper
	flag.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to the configuration file")
	flag.StringVar(&cfg.APIListenAddr, "api-listen", cfg.APIListenAddr, "API listen address")
	flag.StringVar(&cfg.Generator, "generator", cfg.Generator, "Generator backing the service (aesctr, cc20, xorshift)")
	flag.StringVar(&cfg.SeedHex, "seed", cfg.SeedHex, "Hex seed for a reproducible stream (omit to key from entropy)")
	flag.IntVar(&cfg.SeedSize, "seed-size", cfg.SeedSize, "Seed length in bytes when keying from entropy")
	flag.StringVar(&cfg.LogDB, "log-db", cfg.LogDB, "SQLite log database file")
	flag.BoolVar(&cfg.EnableMgmt, "management", cfg.EnableMgmt, "Enable the management socket")
	flag.StringVar(&cfg.MgmtPassword, "management-password", cfg.MgmtPassword, "Password for the management socket")
	flag.IntVar(&cfg.MaxRequestBytes, "max-request-bytes", cfg.MaxRequestBytes, "Largest byte count a single request may ask for")

	flag.Parse() // MUST call this to parse the flags

	// Unmarshal the config into our struct.
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

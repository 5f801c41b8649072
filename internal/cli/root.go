// Package cli implements the vellum command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Config keys read from vellum.yaml.
const (
	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyListenAddr   = "http.addr"
	cfgKeyJWTSecret    = "auth.jwt_secret"
	cfgKeyTokenTTL     = "auth.token_ttl"
	cfgKeyInviteURL    = "invites.base_url"
	cfgKeySMTPHost     = "smtp.host"
	cfgKeySMTPPort     = "smtp.port"
	cfgKeySMTPUsername = "smtp.username"
	cfgKeySMTPPassword = "smtp.password"
	cfgKeySMTPFrom     = "smtp.from"
	cfgKeySMTPFromName = "smtp.from_name"
)

// Defaults.
const (
	defaultBackend    = "sqlite"
	defaultDataDir    = ".vellum-db"
	defaultListenAddr = ":8080"
	defaultInviteURL  = "http://localhost:3000"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configFile string
	dataDir    string
}

var flags rootFlags

// NewRootCmd creates the top-level "vellum" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vellum",
		Short: "Vellum is a headless content-management backend",
		Long: "Vellum manages content-type schemas (collections of typed, constrained\n" +
			"attributes) and validates content records against them.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: vellum.yaml)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .vellum-db)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// loadConfig reads the config file with Viper. A missing file is not an
// error; defaults apply.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyDataDir, defaultDataDir)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyInviteURL, defaultInviteURL)
	v.SetDefault(cfgKeySMTPHost, "localhost")
	v.SetDefault(cfgKeySMTPPort, 25)
	v.SetDefault(cfgKeySMTPFrom, "noreply@localhost")
	v.SetDefault(cfgKeySMTPFromName, "Vellum")

	v.SetEnvPrefix("VELLUM")
	v.AutomaticEnv()

	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
	} else {
		v.SetConfigName("vellum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// resolveDataDir returns the data directory: --data-dir flag, then config,
// then default.
func resolveDataDir(v *viper.Viper) string {
	if flags.dataDir != "" {
		return flags.dataDir
	}
	return v.GetString(cfgKeyDataDir)
}

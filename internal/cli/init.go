package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vellumhq/vellum/internal/sqlite"
	"github.com/vellumhq/vellum/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize vellum storage",
		Long:  "Create the data directory and initialize the storage backend.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	v, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: resolveDataDir(v),
	}

	store := sqlite.NewBackend()
	if err := store.Attach(cfg); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("initialize storage: %s", err))
	}
	if err := store.Detach(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("finalize storage: %s", err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Vellum storage initialized successfully")
	return nil
}

// exitError prints the error to stderr and exits with the given code.
func exitError(cmd *cobra.Command, code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NasuPanda/mnemos-web/internal/config"
	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/storage"
)

var (
	backendFlag  string
	dataFileFlag string
	verboseFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "mnemosctl",
	Short: "Inspect and move the Mnemos data document",
	Long: `mnemosctl works on the same storage the server uses, configured through the
same environment variables (or a .env file). Flags override the environment.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logger.WARN
		if verboseFlag {
			level = logger.DEBUG
		}
		logger.SetDefault(logger.New(logger.WithLevel(level), logger.WithOutput(os.Stderr)))
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// stores opens the configured backing store and the local backup.
type stores struct {
	cfg      config.Config
	remote   storage.Backend
	local    storage.Backend
	localKey string
}

func openStores() (*stores, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.StorageBackend = strings.ToLower(backendFlag)
	}
	if dataFileFlag != "" {
		cfg.DataFile = dataFileFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	remote, err := storage.NewBackend(storage.ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	local, localKey := storage.NewLocalBackup(cfg.DataFile)
	return &stores{cfg: cfg, remote: remote, local: local, localKey: localKey}, nil
}

func (s *stores) Close() error {
	return s.remote.Close()
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Backing store to use (file, gcs, sqlite); defaults to STORAGE_BACKEND")
	rootCmd.PersistentFlags().StringVar(&dataFileFlag, "data-file", "", "Local backup path; defaults to DATA_FILE")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log storage activity to stderr")

	initDocumentCmds()
	rootCmd.AddCommand(showCmd, pushCmd, pullCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

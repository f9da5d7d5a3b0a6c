package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frankonly/merklekit/crypto"
)

var rootCmd *cobra.Command

// Init initiates commands
func Init() error {
	rootCmd = NewRootCmd(viper.GetViper())
	return nil
}

// Execute executes command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree, settings are read through v
func NewRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "merklecli",
		Short: "Merklecli builds and verifies Merkle trees and hash chains",
		// errors are printed once by Execute
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cfgFile)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default $HOME/.merkle.yaml)")
	f.String("hasher", crypto.Sha256, "hash function: sha256, blake2b or sha3")
	f.String("log-level", "warn", "log level: debug, info, warn or error")
	f.Int("parallel-depth", 4, "number of tree levels built concurrently")

	_ = v.BindPFlag("hasher", f.Lookup("hasher"))
	_ = v.BindPFlag("log-level", f.Lookup("log-level"))
	_ = v.BindPFlag("parallel-depth", f.Lookup("parallel-depth"))

	cmd.AddCommand(newHashCmd(v))
	cmd.AddCommand(newListCmd(v))
	cmd.AddCommand(newTreeCmd(v))
	cmd.AddCommand(newProveCmd(v))

	return cmd
}

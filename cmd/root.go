package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suderio/bestiary/internal/config"
	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/log"
)

// app carries the configuration shared by every subcommand of one root.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:   "bestiary",
		Short: "Render creature stat blocks from interpolated text",
		Long: `bestiary turns creature documents into finished stat blocks. Feature text
uses "${...}" interpolation for creature properties and dice arithmetic,
so numbers such as attack bonuses and damage averages are always derived
from the creature itself.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.bestiary.yaml)")
	pf.StringSlice("data-dir", nil, "directories searched for creatures/<name>.yaml, in order")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.Bool("show-text", false, "quote the offending source line in interpolation errors")
	_ = a.v.BindPFlag("data_dirs", pf.Lookup("data-dir"))
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("show_text", pf.Lookup("show-text"))

	root.AddCommand(
		newVersionCmd(),
		newInterpolateCmd(a),
		newDiceCmd(),
		newRenderCmd(a),
		newValidateCmd(a),
		newImportCmd(a),
		newListCmd(a),
	)
	return root
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".bestiary")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("BESTIARY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := cfg.Log
	opts.Output = cmd.ErrOrStderr()
	log.Init(opts)
	log.WithComponent("cmd").Debug("configuration loaded",
		"file", a.v.ConfigFileUsed(), "data_dirs", cfg.DataDirs, "command", cmd.Name())
	return nil
}

// loadCreature reads ref as a file path when it exists, otherwise as a
// creature name looked up in the data directories.
func (a *app) loadCreature(ref string) (*data.Creature, error) {
	if st, err := os.Stat(ref); err == nil && !st.IsDir() {
		return data.LoadFile(ref)
	}
	return data.NewLoader(a.cfg.DataDirs).LoadCreature(ref)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

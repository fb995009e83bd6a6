package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/liran-funaro/charfa/parser"
)

var forceInit bool

// initCmd: charfa init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter lexer definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initDefinitionFile(cfgFile, forceInit); err != nil {
			logger.Error("Error initializing definition file", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Definition file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initDefinitionFile(path string, force bool) error {
	if path == "" {
		path = defaultConfig
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, os.ErrExist)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	d, err := yaml.Marshal(parser.SampleDefinition())
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}

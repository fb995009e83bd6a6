package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liran-funaro/charfa/exec"
)

var matchCount bool

var matchCmd = &cobra.Command{
	Use:   "match [file]",
	Short: "Print every match of the definition in a file, or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := newContext()
		defer cancel()

		program, err := exec.LoadProgram(ctx, logger, cfgFile)
		if err != nil {
			logger.Error("Failed to load definition", zap.String("file", cfgFile), zap.Error(err))
			return err
		}
		in, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()
		text, err := io.ReadAll(in)
		if err != nil {
			logger.Error("Failed to read input", zap.Error(err))
			return err
		}

		matches, err := exec.Find(ctx, logger, program, string(text))
		if err != nil {
			logger.Error("Error searching input", zap.Error(err))
			return err
		}
		out := cmd.OutOrStdout()
		if matchCount {
			fmt.Fprintln(out, len(matches))
			return nil
		}
		for _, m := range matches {
			fmt.Fprintln(out, formatMatch(m))
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().BoolVar(&matchCount, "count", false, "Only print the number of matches")
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liran-funaro/charfa/exec"
	"github.com/liran-funaro/charfa/fa"
)

var (
	lexEngine     string
	lexJsonOutput bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a file, or stdin, with the definition",
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

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		count := 0
		err = exec.Lex(ctx, program, exec.Engine(lexEngine), in, func(tok fa.Token[string]) error {
			count++
			if lexJsonOutput {
				return enc.Encode(tok)
			}
			_, err := fmt.Fprintln(out, formatToken(tok, program.ErrorSymbol))
			return err
		})
		if err != nil {
			logger.Error("Error lexing input", zap.Error(err))
			return err
		}
		logger.Debug("Lexed input", zap.Int("tokens", count))
		return nil
	},
}

func init() {
	lexCmd.Flags().StringVarP(&lexEngine, "engine", "e", string(exec.EngineDFA), "Automaton to run: nfa, dfa or table")
	lexCmd.Flags().BoolVar(&lexJsonOutput, "json", false, "Output tokens as JSON lines")
}

// openInput opens the file named by args, or stdin without arguments.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		logger.Error("Failed to open input", zap.String("file", args[0]), zap.Error(err))
		return nil, err
	}
	return f, nil
}

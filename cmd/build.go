package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liran-funaro/charfa/exec"
)

var (
	genOutput    string
	genPackage   string
	genPrefix    string
	genTableCode bool

	tableOutput string
	tableFormat string

	nfaDotOutput   string
	dfaDotOutput   string
	tableDotOutput string
)

// runPipeline compiles the definition and writes the outputs set in p.
func runPipeline(cmd *cobra.Command, p *exec.Params) error {
	ctx, cancel := newContext()
	defer cancel()

	p.DefinitionFile = cfgFile
	p.Stdout = cmd.OutOrStdout()
	p.Logger = logger
	if _, err := exec.ExecuteWithParams(ctx, p); err != nil {
		logger.Error("Pipeline failed", zap.String("file", cfgFile), zap.Error(err))
		return err
	}
	return nil
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a standalone Go lexer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, &exec.Params{
			OutputFilename: genOutput,
			Package:        genPackage,
			Prefix:         genPrefix,
			TableCode:      genTableCode,
		})
	},
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Dump the DFA table as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, &exec.Params{
			TableOutputFilename: tableOutput,
			TableFormat:         tableFormat,
		})
	},
}

var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Render the automata in GraphViz DOT format",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, &exec.Params{
			NfaDotOutputFilename:   nfaDotOutput,
			DfaDotOutputFilename:   dfaDotOutput,
			TableDotOutputFilename: tableDotOutput,
		})
	},
}

func init() {
	genCmd.Flags().StringVarP(&genOutput, "output", "o", exec.StdoutName, "Output path for the generated lexer")
	genCmd.Flags().StringVar(&genPackage, "package", "", "Package name, overriding the definition")
	genCmd.Flags().StringVar(&genPrefix, "prefix", "", "Prefix of the symbol constants (default Token)")
	genCmd.Flags().BoolVar(&genTableCode, "table", false, "Emit a table driven lexer instead of goto code")

	tableCmd.Flags().StringVarP(&tableOutput, "output", "o", exec.StdoutName, "Output path for the table")
	tableCmd.Flags().StringVar(&tableFormat, "format", "", "json or yaml (default from the output extension)")

	dotCmd.Flags().StringVar(&nfaDotOutput, "nfa", "", "Output path for the NFA graph")
	dotCmd.Flags().StringVar(&dfaDotOutput, "dfa", "", "Output path for the DFA graph")
	dotCmd.Flags().StringVar(&tableDotOutput, "table", "", "Output path for the table graph")
}

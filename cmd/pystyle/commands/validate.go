package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pystyle/pkg/report"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var colorize, nocolor, printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <report.json|->",
		Short: "Validate a JSON report against the report schema",
		Long: `Validate a JSON style report against the embedded report schema.

Examples:
  pystyle validate style_report_app.py.json
  pystyle check --stdout --format json app.py | pystyle validate -
  pystyle validate --schema`,
		Args: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := io.WriteString(cmd.OutOrStdout(), report.Schema())

				return err
			}

			return runValidate(cmd, args[0], colorize, nocolor)
		},
	}

	cmd.Flags().BoolVar(&printSchema, "schema", false, "print the report JSON schema and exit")
	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(cmd *cobra.Command, inputPath string, colorize, nocolor bool) error {
	if nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	data, label, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}

	problems, err := report.Violations(data)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	out := cmd.OutOrStdout()

	if len(problems) == 0 {
		if !boolFlag(cmd, flagQuiet) {
			color.New(color.FgGreen).Fprintf(out, "Report is valid (%s)\n", label)
		}

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "Report validation failed (%s)\n", label)

	fmt.Fprintf(out, "\nErrors:\n")

	for _, problem := range problems {
		color.New(color.FgRed).Fprintf(out, "  - %s\n", problem)
	}

	return fmt.Errorf("%w: %s: %d problem(s)", report.ErrInvalidReport, label, len(problems))
}

func readInput(cmd *cobra.Command, inputPath string) ([]byte, string, error) {
	if inputPath == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, "stdin", nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read report: %w", err)
	}

	return data, inputPath, nil
}

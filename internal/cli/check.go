package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/sources/content"
)

// ErrRejected is returned by check when at least one file was rejected.
var ErrRejected = errors.New("links directory has rejected files")

var checkJSON bool

type checkReport struct {
	Dir        string             `json:"dir"`
	Valid      []string           `json:"valid"`
	Rejections []domain.Rejection `json:"rejections"`
}

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Validate a links directory",
	Long: `Load every data file of a links directory, validate it against the link
schema and print one line per problem:

  links/grafana.yaml: order: out_of_range (0)

The exit status is 1 when any file is rejected, which makes check usable
as a CI step before deploying content.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := content.NewLoader(args[0]).Load()
		if err != nil {
			return err
		}
		result := content.NewMapper().MapLinks(snap)

		report := checkReport{
			Dir:        args[0],
			Valid:      make([]string, 0, len(result.Links)),
			Rejections: result.Rejections,
		}
		for _, l := range result.Links {
			report.Valid = append(report.Valid, l.ID)
		}
		if report.Rejections == nil {
			report.Rejections = []domain.Rejection{}
		}

		out := cmd.OutOrStdout()
		if checkJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		} else if err := printReport(out, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if len(report.Rejections) > 0 {
			return ErrRejected
		}
		return nil
	},
}

func printReport(w io.Writer, report checkReport) error {
	for _, rej := range report.Rejections {
		if len(rej.Problems) == 0 {
			if _, err := fmt.Fprintf(w, "%s: %s\n", rej.Path, rej.Error); err != nil {
				return err
			}
			continue
		}
		for _, p := range rej.Problems {
			line := fmt.Sprintf("%s: %s: %s", rej.Path, p.Field, p.Kind)
			if p.Value != "" {
				line += " (" + p.Value + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d valid, %d rejected\n", len(report.Valid), len(report.Rejections))
	return err
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

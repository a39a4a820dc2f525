// Package match provides the match command, which shows how two project
// names compare under the fuzzy matching used against Modrinth and CurseForge.
package match

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/internal/cmd/output"
	"github.com/agentstation/halloffame/internal/matcher"
)

// Comparison is the outcome of comparing two names.
type Comparison struct {
	A          string  `json:"a" yaml:"a"`
	B          string  `json:"b" yaml:"b"`
	NormalA    string  `json:"normalized_a" yaml:"normalized_a"`
	NormalB    string  `json:"normalized_b" yaml:"normalized_b"`
	Distance   int     `json:"distance" yaml:"distance"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	Match      bool    `json:"match" yaml:"match"`
}

// Compare compares two names.
func Compare(a, b string) Comparison {
	na, nb := matcher.Normalize(a), matcher.Normalize(b)
	return Comparison{
		A:          a,
		B:          b,
		NormalA:    na,
		NormalB:    nb,
		Distance:   matcher.Distance(na, nb),
		Similarity: matcher.Similarity(a, b),
		Threshold:  matcher.Threshold,
		Match:      matcher.IsMatch(a, b),
	}
}

// NewCommand creates the match command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "match <name> <candidate>",
		GroupID: "tools",
		Short:   "Compare two project names",
		Long: `Match compares two names the way search results are compared to a
record: both are lowercased with '-', '_' and spaces removed, then the
Levenshtein distance is turned into a similarity score.`,
		Example: `  halloffame match "Elytra Trims" elytra-trims`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := Compare(args[0], args[1])
			format := output.DetectFormat(app.OutputFormat())
			if !format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), c)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), tableData(c))
		},
	}
}

func tableData(c Comparison) output.Data {
	return output.Data{
		Headers: []string{"", "Value"},
		Rows: [][]string{
			{"Name", c.A},
			{"Candidate", c.B},
			{"Normalized", c.NormalA},
			{"Normalized candidate", c.NormalB},
			{"Distance", strconv.Itoa(c.Distance)},
			{"Similarity", fmt.Sprintf("%.3f", c.Similarity)},
			{"Threshold", fmt.Sprintf("%.2f", c.Threshold)},
			{"Match", strconv.FormatBool(c.Match)},
		},
	}
}

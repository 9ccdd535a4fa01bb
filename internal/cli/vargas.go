package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/shadbala"
	"github.com/matzehuels/jyotish/pkg/varga"
)

// vargasCommand lists the registered divisional charts.
func (c *CLI) vargasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vargas",
		Short: "List the supported divisional charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := varga.Default()
			rows := [][]string{}
			for _, n := range reg.Divisions() {
				t, err := reg.Lookup(n)
				if err != nil {
					return err
				}
				var notes []string
				if slices.Contains(pipeline.DefaultDivisions, n) {
					notes = append(notes, "default")
				}
				if slices.Contains(shadbala.Saptavarga, n) {
					notes = append(notes, "saptavarga")
				}
				rows = append(rows, []string{fmt.Sprintf("D%d", n), t.Name(), joinNotes(notes)})
			}
			printTable([]string{"Division", "Name", ""}, rows)
			printNextStep("Compute extra divisions", "jyotish chart --divisions 16,60 ...")
			return nil
		},
	}
}

func joinNotes(notes []string) string {
	out := ""
	for i, n := range notes {
		if i > 0 {
			out += ", "
		}
		out += StyleDim.Render(n)
	}
	return out
}

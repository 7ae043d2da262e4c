package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/vibecoding/ideaforge/internal/idea"
	"github.com/vibecoding/ideaforge/internal/rules"
)

var (
	evalTitle       string
	evalDescription string
	evalUsers       string
	evalFeatures    string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the rule pre-screen for an idea without calling a model",
	Long: `evaluate checks an idea against the platform constraint tables and
prints the pre-screen result as JSON. No model call is made, so it works
offline and needs no API key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := rules.NewEngine()
		if err != nil {
			return err
		}

		sub := idea.Submission{
			Title:        evalTitle,
			Description:  evalDescription,
			PrimaryUsers: evalUsers,
			Features:     evalFeatures,
		}
		result := engine.Evaluate(sub.CombinedText())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalTitle, "title", "", "Idea title")
	evaluateCmd.Flags().StringVar(&evalDescription, "description", "", "What the idea does")
	evaluateCmd.Flags().StringVar(&evalUsers, "users", "", "Who will use it")
	evaluateCmd.Flags().StringVar(&evalFeatures, "features", "", "Key features, one line each")
	rootCmd.AddCommand(evaluateCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/interview-coach/internal/config"
	"github.com/mind-engage/interview-coach/internal/grading"
)

func scoreCMD() *cobra.Command {
	var keywords []string
	var synonymsPath string
	var score = &cobra.Command{
		Use:   "score [flags] TEXT",
		Short: "Score a response against keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if synonymsPath == "" {
				synonymsPath = config.FromEnv().SynonymsPath
			}
			syn, err := grading.LoadSynonyms(synonymsPath)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d\n", grading.Score(text, keywords, syn), grading.MaxScore)
			for _, k := range keywords {
				mark := "-"
				if grading.HasKeyword(text, k, syn) {
					mark = "+"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", mark, k)
			}
			return nil
		},
	}
	score.Flags().StringSliceVar(&keywords, "keywords", nil, "expected keywords, comma separated")
	score.Flags().StringVar(&synonymsPath, "synonyms", "", "synonym table (defaults to SYNONYMS_PATH, then the built-in table)")
	return score
}

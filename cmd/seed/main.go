// Package main is the reference data tool: it loads dataset files into
// MongoDB, checks them, and replays answers offline.
package main

import (
	"context"
	"dronediag/internal/app"
	"dronediag/internal/config"
	"dronediag/internal/dataset"
	"dronediag/internal/diagnosis"
	"dronediag/internal/model"
	"dronediag/internal/repository"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Drone diagnosis reference data tool",
	Long:  `Load, validate and try out the catalog, question sets and result templates.`,
}

var (
	datasetDir  string
	questionSet string
	answers     []string
	weightPref  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&datasetDir, "dir", "", "dataset directory (defaults to the embedded dataset)")

	simulateCmd.Flags().StringVar(&questionSet, "set", "dynamic", "question set id")
	simulateCmd.Flags().StringSliceVarP(&answers, "answer", "a", nil, "answer as questionId=optionKey, repeatable")
	simulateCmd.Flags().StringVar(&weightPref, "weight", "", "entry weight preference (under100, over100)")

	rootCmd.AddCommand(loadCmd, checkCmd, simulateCmd)
}

// readBundle decodes and validates the selected dataset
func readBundle() (*dataset.Bundle, []model.IntegrityIssue, error) {
	var (
		b   *dataset.Bundle
		err error
	)
	if datasetDir == "" {
		b, err = dataset.Default()
	} else {
		b, err = dataset.LoadDir(datasetDir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	issues, err := b.Prepare()
	if err != nil {
		return nil, nil, err
	}
	return b, issues, nil
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Upsert the dataset into MongoDB",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, issues, err := readBundle()
		if err != nil {
			return err
		}
		printIssues(issues)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg := config.Load()
		client, err := app.ConnectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		db := client.Database(cfg.MongoDB)

		if err := repository.NewCatalogRepo(db).Upsert(ctx, b.Catalog); err != nil {
			return fmt.Errorf("failed to upsert catalog: %w", err)
		}
		sets := repository.NewQuestionSetRepo(db)
		for _, qs := range b.QuestionSets {
			if err := sets.Upsert(ctx, qs); err != nil {
				return fmt.Errorf("failed to upsert question set %s: %w", qs.ID, err)
			}
		}
		if err := repository.NewTemplateRepo(db).Upsert(ctx, b.Templates); err != nil {
			return fmt.Errorf("failed to upsert templates: %w", err)
		}

		fmt.Printf("Loaded catalog %s (%d products), %d question sets, %d templates into %s\n",
			b.Catalog.Version, len(b.Catalog.Products), len(b.QuestionSets), len(b.Templates.Templates), cfg.MongoDB)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the dataset and print the integrity report",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, issues, err := readBundle()
		if err != nil {
			return err
		}

		fmt.Println("=== Dataset ===")
		fmt.Printf("Catalog:    %s (%d categories, %d products)\n", b.Catalog.Version, len(b.Catalog.Categories), len(b.Catalog.Products))
		for _, qs := range b.QuestionSets {
			fmt.Printf("Questions:  %s (%d questions)\n", qs.ID, len(qs.Questions))
		}
		fmt.Printf("Templates:  %d\n", len(b.Templates.Templates))
		for _, key := range b.Catalog.CategoryPriority() {
			if _, ok := b.Catalog.Category(key); ok && b.Templates.Template(key) == nil {
				fmt.Printf("  no template for %s, generic result page will be used\n", key)
			}
		}
		fmt.Println()
		printIssues(issues)
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay answers through the engine and print the outcome",
	Example: `  seed simulate -a q_scene=personal -a q_hobby_style=fun -a q_budget=under60k -a q_weight=under100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := readBundle()
		if err != nil {
			return err
		}
		set, ok := b.QuestionSet(questionSet)
		if !ok {
			return fmt.Errorf("unknown question set %q", questionSet)
		}
		pref := model.WeightPreference(weightPref)
		if !pref.Valid() {
			return fmt.Errorf("invalid weight preference %q", weightPref)
		}

		history := make([]model.AnswerRecord, 0, len(answers))
		for _, a := range answers {
			qID, key, ok := strings.Cut(a, "=")
			if !ok {
				return fmt.Errorf("answer %q is not questionId=optionKey", a)
			}
			history = append(history, model.AnswerRecord{QuestionID: qID, OptionKey: key})
		}

		state := diagnosis.Replay(set, diagnosis.NewState(diagnosis.WithPreferredWeight(pref)), history)
		progress := diagnosis.CurrentProgress(set, state)
		fmt.Printf("Mode:       %s\n", state.Mode)
		fmt.Printf("Progress:   %d/%d\n", progress.Answered, progress.Total)

		summary := diagnosis.NewScorer(b.Catalog.CategoryPriority()).Evaluate(set, state.Answers, diagnosis.DefaultClosenessThreshold)
		for _, r := range summary.Ranked {
			if r.Score > 0 {
				fmt.Printf("  %-12s %.1f\n", r.Category, r.Score)
			}
		}

		if !diagnosis.IsComplete(state, diagnosis.ActiveQuestions(set, state)) {
			if next := diagnosis.NextQuestion(set, state); next != nil {
				fmt.Printf("Next:       %s (%s)\n", next.ID, next.Text)
			}
			return nil
		}
		if summary.Primary == nil {
			fmt.Println("Complete, but no answer scored a category")
			return nil
		}

		sel := diagnosis.SelectCandidates(b.Catalog, summary.Primary.Category, state)
		res := diagnosis.BuildResult(b.Catalog, b.Templates, summary, sel, state)
		fmt.Printf("Result:     %s (%s)\n", res.CategoryLabel, res.Category)
		if res.Primary != nil {
			fmt.Printf("Primary:    %s\n", res.Primary.Name)
		}
		for _, p := range res.Alternatives {
			fmt.Printf("  alt       %s\n", p.Name)
		}
		if res.Note != "" {
			fmt.Printf("Note:       %s\n", res.Note)
		}
		for _, h := range res.Highlights {
			fmt.Printf("  * %s\n", h)
		}
		return nil
	},
}

func printIssues(issues []model.IntegrityIssue) {
	if len(issues) == 0 {
		fmt.Println("Integrity: ok")
		return
	}
	fmt.Printf("Integrity: %d issue(s)\n", len(issues))
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
}

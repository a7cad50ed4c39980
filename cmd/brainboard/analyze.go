package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/cli"
	"github.com/hyperjump/brainboard/internal/config"
	"github.com/hyperjump/brainboard/internal/extract"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/internal/server"
)

// withAnalyzer runs fn against a remote server when --server is set and
// against a locally wired service otherwise.
func withAnalyzer(cmd *cobra.Command, opts *options, fn func(server.Insights) error) error {
	if url := opts.v.GetString("server"); url != "" {
		return fn(cli.NewClient(url, nil))
	}
	components, err := initializeComponents(cmd.Context(), opts.config, opts.logger)
	if err != nil {
		return err
	}
	defer components.Close()
	return fn(components.Service)
}

// readCards imports path, or decodes a JSON card array from stdin when path is "-".
func readCards(cmd *cobra.Command, opts *options, path string) ([]models.Card, error) {
	ex := extract.NewExtractor(opts.logger)
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return ex.CardsFromBytes(data, ".json", "stdin")
	}
	return ex.Cards(path)
}

func newMoodCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mood <text>",
		Short: "Classify the mood of a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withAnalyzer(cmd, opts, func(a server.Insights) error {
				mood, err := a.AnalyzeMood(cmd.Context(), text)
				if err != nil {
					return err
				}
				return cli.WriteMood(cmd.OutOrStdout(), mood, opts.format)
			})
		},
	}
}

func newClusterCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cluster <file>",
		Short: "Group the cards in a file into clusters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readCards(cmd, opts, args[0])
			if err != nil {
				return err
			}
			return withAnalyzer(cmd, opts, func(a server.Insights) error {
				clusters, err := a.ClusterCards(cmd.Context(), cards)
				if err != nil {
					return err
				}
				return cli.WriteClusters(cmd.OutOrStdout(), clusters, cards, opts.format)
			})
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Rank the cards in a file against a query",
		Long: `Search ranks the cards in a file against a query. The query is every
argument after the file joined by spaces, so quotes are optional.

With --explain the cards are ranked locally by keyword score and each hit
lists the points awarded by the exact, keyword and partial scorers.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readCards(cmd, opts, args[0])
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			if explain {
				if opts.v.GetString("server") != "" {
					return errors.New("--explain ranks locally and cannot be combined with --server")
				}
				hits := explainSearch(opts, cards, query)
				return cli.WriteExplanations(cmd.OutOrStdout(), query, hits, opts.format)
			}
			return withAnalyzer(cmd, opts, func(a server.Insights) error {
				results, err := a.SearchCards(cmd.Context(), cards, query)
				if err != nil {
					return err
				}
				return cli.WriteResults(cmd.OutOrStdout(), query, results, opts.format)
			})
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "show per-scorer points for each hit")
	return cmd
}

// explainSearch ranks cards with the configured weights and lexicon packs.
func explainSearch(opts *options, cards []models.Card, query string) []ranking.Explanation {
	lexicons := lexicon.NewRegistry()
	if dir := opts.config.Lexicon.Dir; dir != "" {
		if _, err := lexicons.Reload(dir); err != nil {
			opts.logger.Warn("lexicon packs not loaded", zap.String("dir", dir), zap.Error(err))
		}
	}
	return ranking.NewRanker(&opts.config.Ranking).Explain(cards, query, lexicons.Snapshot())
}

func newSuggestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <file>",
		Short: "Suggest follow-up ideas for the cards in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readCards(cmd, opts, args[0])
			if err != nil {
				return err
			}
			return withAnalyzer(cmd, opts, func(a server.Insights) error {
				suggestions, err := a.GenerateSuggestions(cmd.Context(), cards)
				if err != nil {
					return err
				}
				return cli.WriteSuggestions(cmd.OutOrStdout(), suggestions, opts.format)
			})
		},
	}
}

func newSummarizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize the cards in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readCards(cmd, opts, args[0])
			if err != nil {
				return err
			}
			return withAnalyzer(cmd, opts, func(a server.Insights) error {
				summary, err := a.SummarizeBoard(cmd.Context(), cards)
				if err != nil {
					return err
				}
				return cli.WriteSummary(cmd.OutOrStdout(), summary, opts.format)
			})
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Turn a document into cards",
		Long: `Import splits a document into cards: markdown and text list items and
paragraphs, HTML blocks, PDF lines, DOCX/ODT/RTF paragraphs, spreadsheet rows,
slides, or a JSON card array. Card ids are stable across repeated imports.
Use --output json to produce a file the other commands accept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := readCards(cmd, opts, args[0])
			if err != nil {
				return err
			}
			return cli.WriteCards(cmd.OutOrStdout(), cards, opts.format)
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with every default filled in",
		Long: `Init writes the default configuration as YAML to path, or to
./brainboard.yaml when no path is given. Environment overrides and API keys
are not written. An existing file is only replaced with --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "brainboard.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of brainboard",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "brainboard version %s\n", version)
		},
	}
}

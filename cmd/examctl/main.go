package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rpatel9/examforge/internal/config"
	"github.com/rpatel9/examforge/internal/extract"
	"github.com/rpatel9/examforge/internal/gitstore"
	"github.com/rpatel9/examforge/internal/quiz"
	"github.com/rpatel9/examforge/internal/report"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "examctl",
		Short: "Exam paper parsing and store management",
		Long: `Examctl converts exam paper documents into structured question
records and manages the paper store.

Local parsing needs no credentials; store commands read the same
GITHUB_TOKEN / REPO_OWNER / REPO_NAME environment the server uses.`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(pushCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(scoreCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseFile runs the extract and parse phases on a local document.
func parseFile(path string, cfg quiz.Config, pdfFallback bool) (*quiz.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	ex, err := extract.ForFile(path)
	if err != nil {
		return nil, err
	}
	if pdfEx, ok := ex.(*extract.PDFExtractor); ok {
		pdfEx.FallbackPdftotext = pdfFallback
	}

	doc, err := ex.Extract(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	return quiz.NewParser(cfg).ParsePages(doc.PageTexts())
}

// printCapture writes the capture summary to stderr so parsed JSON on
// stdout stays pipeable.
func printCapture(res *quiz.Result) {
	fmt.Fprintf(os.Stderr, "Captured %d question(s)\n", len(res.Paper.Questions))
	if len(res.Missing) > 0 {
		fmt.Fprintf(os.Stderr, "Missing ids: %v\n", res.Missing)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: Q.%d %s %s\n", w.ID, w.Kind, w.Detail)
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a paper document into question records",
		Long: `Parse a paper document into question records and write them as
JSON.

Supported formats: PDF, DOCX, TXT, MD, HTML, CSV

Example:
  examctl parse rrb-2024.pdf
  examctl parse rrb-2024.pdf --output rrb-2024.json --max 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			maxQuestions, _ := cmd.Flags().GetInt("max")
			pdfFallback, _ := cmd.Flags().GetBool("pdftotext-fallback")

			cfg := quiz.DefaultConfig()
			if maxQuestions > 0 {
				cfg.MaxQuestions = maxQuestions
			}

			start := time.Now()
			res, err := parseFile(args[0], cfg, pdfFallback)
			if err != nil {
				return err
			}

			data, err := res.Paper.Encode()
			if err != nil {
				return fmt.Errorf("encode paper: %w", err)
			}

			if output == "" {
				fmt.Println(string(data))
			} else {
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Printf("Wrote %s\n", output)
			}

			printCapture(res)
			fmt.Fprintf(os.Stderr, "Done in %v\n", time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output JSON file (default: stdout)")
	cmd.Flags().Int("max", 0, "Highest question number to look for")
	cmd.Flags().Bool("pdftotext-fallback", true, "Fall back to the pdftotext binary for unreadable PDFs")
	return cmd
}

// storeClient builds the content store client from the environment.
func storeClient() (*gitstore.Client, error) {
	cfg := config.Load()
	if cfg.GitHubToken == "" || cfg.RepoOwner == "" || cfg.RepoName == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN, REPO_OWNER and REPO_NAME must be set")
	}
	return gitstore.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken, cfg.RepoOwner, cfg.RepoName, cfg.Branch, cfg.StoreDir), nil
}

func pushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Parse a document and store the paper",
		Long: `Parse a paper document and write the resulting question records
to the store.

Example:
  examctl push rrb-2024.pdf --id rrb-2024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paperID, _ := cmd.Flags().GetString("id")
			maxQuestions, _ := cmd.Flags().GetInt("max")

			if paperID == "" {
				base := filepath.Base(args[0])
				paperID = strings.TrimSuffix(base, filepath.Ext(base))
			}

			store, err := storeClient()
			if err != nil {
				return err
			}

			cfg := quiz.DefaultConfig()
			if maxQuestions > 0 {
				cfg.MaxQuestions = maxQuestions
			}

			res, err := parseFile(args[0], cfg, true)
			if err != nil {
				return err
			}
			res.Paper.Metadata = map[string]string{
				"source_file": filepath.Base(args[0]),
				"parsed_at":   time.Now().UTC().Format(time.RFC3339),
			}

			data, err := res.Paper.Encode()
			if err != nil {
				return fmt.Errorf("encode paper: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			name := paperID + ".json"
			message := fmt.Sprintf("Add paper %s from %s", paperID, filepath.Base(args[0]))
			if err := store.Put(ctx, name, data, message); err != nil {
				return fmt.Errorf("store paper: %w", err)
			}

			fmt.Printf("Stored %s\n", name)
			printCapture(res)
			return nil
		},
	}

	cmd.Flags().String("id", "", "Paper id (default: source filename without extension)")
	cmd.Flags().Int("max", 0, "Highest question number to look for")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored papers",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			files, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No papers stored.")
				return nil
			}
			for _, f := range files {
				fmt.Printf("%-40s %8d bytes  %s\n", strings.TrimSuffix(f.Name, ".json"), f.Size, f.SHA[:8])
			}
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [paper-id]",
		Short: "Print a stored paper as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			f, err := store.Get(ctx, args[0]+".json")
			if err != nil {
				return err
			}
			fmt.Println(string(f.Content))
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [paper-id]",
		Short: "Delete a stored paper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			message := fmt.Sprintf("Delete paper %s", args[0])
			if err := store.Delete(ctx, args[0]+".json", message); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [paper-id]",
		Short: "Export a stored paper as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = args[0] + ".xlsx"
			}

			store, err := storeClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			f, err := store.Get(ctx, args[0]+".json")
			if err != nil {
				return err
			}
			paper, err := quiz.DecodePaper(f.Content)
			if err != nil {
				return fmt.Errorf("decode paper: %w", err)
			}

			data, err := report.PaperExcel(paper)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Printf("Wrote %s (%d questions)\n", output, len(paper.Questions))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output .xlsx file (default: <paper-id>.xlsx)")
	return cmd
}

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [paper-file]",
		Short: "Score answers against a local paper JSON",
		Long: `Score a set of selected options against a local paper JSON file.

Selections are id=option pairs; the option text must match the stored
option exactly.

Example:
  examctl score rrb-2024.json --select "1=1. Mars" --select "2=2. Pacific" --penalty 0.333`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selects, _ := cmd.Flags().GetStringArray("select")
			penalty, _ := cmd.Flags().GetFloat64("penalty")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read paper: %w", err)
			}
			paper, err := quiz.DecodePaper(data)
			if err != nil {
				return fmt.Errorf("decode paper: %w", err)
			}

			selections := make(map[int]string, len(selects))
			for _, s := range selects {
				id, value, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid selection %q (want id=option)", s)
				}
				n, err := strconv.Atoi(strings.TrimSpace(id))
				if err != nil || n < 1 {
					return fmt.Errorf("invalid question id in %q", s)
				}
				selections[n] = value
			}

			res := quiz.ScorePaper(paper, selections, quiz.ScoreConfig{WrongPenalty: penalty})
			fmt.Printf("Score: %.2f / %.0f\n", res.Total, res.MaxTotal)
			fmt.Printf("  Correct:    %d\n", res.Correct)
			fmt.Printf("  Wrong:      %d\n", res.Wrong)
			fmt.Printf("  Unanswered: %d\n", res.Unanswered)
			return nil
		},
	}

	cmd.Flags().StringArray("select", nil, "Selection as id=option (repeatable)")
	cmd.Flags().Float64("penalty", 0, "Fraction of one mark deducted per wrong answer")
	return cmd
}

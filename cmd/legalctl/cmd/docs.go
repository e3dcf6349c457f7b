package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/ingest"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd, docsImportCmd, docsDeleteCmd)

	for _, c := range []*cobra.Command{docsImportCmd, docsDeleteCmd} {
		c.Flags().StringP("passphrase", "p", "", "admin passphrase")
		c.MarkFlagRequired("passphrase")
	}
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the document repository",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cleanup, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		printSummaries(cmd, domain.Summarize(rt.App.Documents()))
		return nil
	},
}

var docsImportCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Add .txt, .md or .docx files to the repository",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := readFiles(args)
		if err != nil {
			return err
		}

		rt, cleanup, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		passphrase, _ := cmd.Flags().GetString("passphrase")
		if err := rt.App.Login(passphrase); err != nil {
			return err
		}
		defer rt.App.Logout()

		result, err := rt.App.UploadDocuments(cmd.Context(), files)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added %d document(s)\n", result.Added)
		for _, msg := range result.Errors {
			fmt.Fprintln(out, msg)
		}
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a document by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cleanup, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		passphrase, _ := cmd.Flags().GetString("passphrase")
		if err := rt.App.Login(passphrase); err != nil {
			return err
		}
		defer rt.App.Logout()

		deleted, err := rt.App.DeleteDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintf(cmd.OutOrStdout(), "No document with id %s\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func readFiles(paths []string) ([]ingest.File, error) {
	files := make([]ingest.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, ingest.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

func printSummaries(cmd *cobra.Command, docs []domain.DocumentSummary) {
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents")
		return
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSUMMARY")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Title, d.Summary)
	}
	tw.Flush()
}

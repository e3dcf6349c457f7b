package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(askCmd, suggestCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Ask one question about the stored documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cleanup, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := rt.App.SendMessage(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if result.Error != "" {
			return errors.New(result.Error)
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Reply.Content)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print suggested questions for the stored documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cleanup, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		rt.App.RefreshSuggestions()
		rt.App.Wait()

		suggestions := rt.App.Suggestions().Suggestions
		if len(suggestions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No suggestions")
			return nil
		}
		for _, s := range suggestions {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", s)
		}
		return nil
	},
}

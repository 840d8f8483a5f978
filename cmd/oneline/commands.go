package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/oneline-api/internal/domain"
	"github.com/phrazzld/oneline-api/internal/service"
	"github.com/phrazzld/oneline-api/internal/store"
	"github.com/spf13/cobra"
)

// describeRejection turns admission errors into the messages a user sees.
func describeRejection(err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateForDay):
		return errors.New("an entry for today already exists; come back tomorrow")
	case errors.As(err, &verr):
		return errors.New(verr.Message)
	default:
		return fmt.Errorf("failed to save entry: %w", err)
	}
}

func newWriteCommand(env environment, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "write <sentence...>",
		Short: "Record today's sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, env, flags)
			if err != nil {
				return err
			}
			defer s.close()

			entry, err := s.journal.SubmitEntry(cmd.Context(), s.owner, strings.Join(args, " "))
			if err != nil {
				return describeRejection(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Entry added for %s.\n", entry.Date.Display())
			return err
		},
	}
}

func newTodayCommand(env environment, flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's sentence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			s, err := openSession(cmd, env, flags)
			if err != nil {
				return err
			}
			defer s.close()

			today, err := s.journal.GetToday(cmd.Context(), s.owner)
			if err != nil {
				return fmt.Errorf("failed to load entries: %w", err)
			}

			out := cmd.OutOrStdout()
			if output != outputText {
				var view *entryView
				if today.Found {
					v := viewOf(today.Entry)
					view = &v
				}
				return writeStructured(out, output, view)
			}

			if !today.Found {
				_, err = fmt.Fprintf(out, "Nothing written yet for %s.\n", today.Date.Display())
				return err
			}
			_, err = fmt.Fprintf(out, "%s\n%s\n", today.Entry.Date.Display(), today.Entry.Sentence)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func newHistoryCommand(env environment, flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every entry, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			s, err := openSession(cmd, env, flags)
			if err != nil {
				return err
			}
			defer s.close()

			entries, err := s.journal.GetHistory(cmd.Context(), s.owner)
			if err != nil {
				return fmt.Errorf("failed to load entries: %w", err)
			}
			return printHistory(cmd.OutOrStdout(), output, entries)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func newExportCommand(env environment, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the owner's entries as a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, env, flags)
			if err != nil {
				return err
			}
			defer s.close()

			snap, err := store.Export(cmd.Context(), s.store, []string{s.owner})
			if err != nil {
				return err
			}

			if args[0] == "-" {
				return snap.Encode(cmd.OutOrStdout())
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := snap.Encode(f); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s.\n", len(snap[s.owner]), args[0])
			return err
		},
	}
}

func newImportCommand(env environment, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Load entries from a JSON snapshot, keeping existing days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			snap, err := store.DecodeSnapshot(r)
			if err != nil {
				return err
			}

			s, err := openSession(cmd, env, flags)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := store.Import(cmd.Context(), s.store, snap)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d existing, rejected %d invalid.\n",
				result.Imported, result.Skipped, result.Invalid)
			return err
		},
	}
}

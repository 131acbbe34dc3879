package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r381893/hot-work-form/internal/editor"
	"github.com/r381893/hot-work-form/internal/export"
)

var errUnknownForm = errors.New("no saved form with that id")

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved forms, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, e := range editor.New(rt.opts).List(cmd.Context()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.ID, e.Label)
			}
			return nil
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		target string
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Render a saved form as PNG, PDF or XLSX",
		Example: `  hotwork export 6f1c... --target all --format pdf
  hotwork export 6f1c... --target after --format png --out ./permits`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := export.ParseTarget(target)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			opts := rt.opts
			opts.Notifier = editor.LogNotifier{Log: rt.log}
			if outDir != "" {
				opts.ExportDir = outDir
			}
			ed := editor.New(opts)
			if !ed.Load(cmd.Context(), args[0]) {
				return fmt.Errorf("%w: %s", errUnknownForm, args[0])
			}
			art, err := ed.Export(cmd.Context(), t, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), art.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", string(export.TargetAll), "before, during, after or all")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPDF), "png, pdf or xlsx")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output folder (default: exportDir from config)")
	return cmd
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			opts := rt.opts
			opts.Notifier = editor.LogNotifier{Log: rt.log}
			ed := editor.New(opts)
			if !ed.Load(cmd.Context(), args[0]) {
				return fmt.Errorf("%w: %s", errUnknownForm, args[0])
			}

			in := bufio.NewReader(cmd.InOrStdin())
			confirm := func(prompt string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
				answer, _ := in.ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				return answer == "y" || answer == "yes"
			}

			err = ed.Delete(cmd.Context(), confirm)
			if errors.Is(err, editor.ErrDeleteCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Write the effective settings to config.json and print its folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.cfg.SetConfig(rt.cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.cfg.DataDir())
			return nil
		},
	}
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/dennisklein/memtally/internal/bytesize"
)

//nolint:govet // fieldalignment: readability preferred over optimization
type formatOptions struct {
	layout bytesize.Layout
	binary bool
	exact  bool
}

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <bytes>...",
		Short: "Render byte counts in human readable units",
		Long:  `Render each byte count with the largest fitting prefix, e.g. 1500 becomes "1.50 kB" (or "1.46 KiB" with --binary).`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFormat,
	}

	cmd.Flags().BoolP("binary", "b", false, "Use powers of 1024 (KiB, MiB, ...)")
	cmd.Flags().IntP("width", "w", 0, "Field width")
	cmd.Flags().StringP("align", "a", "right", "Alignment within the field [left|right|center]")
	cmd.Flags().String("fill", " ", "Fill character, also used as separator")
	cmd.Flags().Bool("exact", false, "Append the byte count the rendered value converts back to")

	return cmd
}

func formatOptionsFromFlags(cmd *cobra.Command) (formatOptions, error) {
	var opts formatOptions

	flags := cmd.Flags()

	binary, err := flags.GetBool("binary")
	if err != nil {
		return opts, fmt.Errorf("failed to get --binary flag: %w", err)
	}

	width, err := flags.GetInt("width")
	if err != nil {
		return opts, fmt.Errorf("failed to get --width flag: %w", err)
	}

	alignName, err := flags.GetString("align")
	if err != nil {
		return opts, fmt.Errorf("failed to get --align flag: %w", err)
	}

	fill, err := flags.GetString("fill")
	if err != nil {
		return opts, fmt.Errorf("failed to get --fill flag: %w", err)
	}

	exact, err := flags.GetBool("exact")
	if err != nil {
		return opts, fmt.Errorf("failed to get --exact flag: %w", err)
	}

	align, err := bytesize.ParseAlign(alignName)
	if err != nil {
		return opts, err
	}

	if utf8.RuneCountInString(fill) != 1 {
		return opts, fmt.Errorf("invalid --fill %q: must be a single character", fill)
	}

	fillRune, _ := utf8.DecodeRuneInString(fill)

	opts.layout = bytesize.Layout{Width: width, Align: align, Fill: fillRune}
	opts.binary = binary
	opts.exact = exact

	return opts, nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	opts, err := formatOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid byte count %q: %w", arg, err)
		}

		if opts.binary {
			err = printQuantity(out, bytesize.FromBytesBinary(n), opts)
		} else {
			err = printQuantity(out, bytesize.FromBytesDecimal(n), opts)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func printQuantity[U bytesize.Unit](out io.Writer, q bytesize.Bytes[U], opts formatOptions) error {
	line := q.Pad(opts.layout)
	if opts.exact {
		line += fmt.Sprintf(" (%.0f bytes)", q.ToBytes())
	}

	if _, err := fmt.Fprintln(out, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

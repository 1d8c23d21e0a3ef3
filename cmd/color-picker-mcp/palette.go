package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) newPaletteCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Report the reference color table in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d colors\n", paletteSource(a.cfg.Palette), a.palette.Len())
			if list {
				for _, e := range a.palette.Entries() {
					fmt.Fprintf(out, "%-24s %s %3d %3d %3d\n", e.Name, e.Hex, e.R, e.G, e.B)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print every entry")
	return cmd
}

func (a *app) newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name R G B",
		Short: "Print the nearest named color for an RGB triple",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ch [3]int
			for i, s := range args {
				v, err := strconv.Atoi(s)
				if err != nil {
					return errors.Wrapf(err, "channel %d", i)
				}
				if v < 0 || v > 255 {
					return errors.Errorf("channel %d: %d outside [0,255]", i, v)
				}
				ch[i] = v
			}

			entry, dist := a.palette.NearestEntry(ch[0], ch[1], ch[2])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s distance %d\n", entry.Name, entry.Hex, dist)
			return nil
		},
	}
}

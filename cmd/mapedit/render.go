package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/cbmap"
	"github.com/cbmap/mapcore/compose"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var (
		out           string
		width, height int
		zoom          float64
		cx, cy        float64
		centerSet     bool
	)
	cmd := &cobra.Command{
		Use:   "render <map.cbmap>",
		Short: "Composite a map archive into a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return zerr.Wrap(err, "read archive")
			}
			doc, err := cbmap.Unpack(data)
			if err != nil {
				return err
			}

			target := doc.Rect.Center()
			if centerSet {
				target = mapcore.Pt(cx, cy)
			}
			vp := compose.Viewport{Target: target, Zoom: zoom, Width: width, Height: height}

			c := compose.New(flags.cfg)
			if doc.Materials != nil {
				c.Materials = doc.Materials
			}
			fb, err := c.Composite(cmd.Context(), doc.Stack, vp)
			if err != nil {
				return err
			}
			if err := fb.SavePNG(out); err != nil {
				return zerr.Wrap(err, "write png")
			}
			cmd.Printf("rendered %s (%dx%d @ %gx) -> %s\n", args[0], width, height, zoom, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "map.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 1024, "output width in pixels")
	cmd.Flags().IntVar(&height, "height", 768, "output height in pixels")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "screen pixels per world unit")
	cmd.Flags().Float64Var(&cx, "cx", 0, "world x at viewport center (default: content center)")
	cmd.Flags().Float64Var(&cy, "cy", 0, "world y at viewport center (default: content center)")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		centerSet = cmd.Flags().Changed("cx") || cmd.Flags().Changed("cy")
	}
	return cmd
}

package main

import (
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore/cbmap"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <map.cbmap>",
		Short: "Print a map archive's contents and content hash",
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

			cmd.Printf("hash:  %016x\n", xxhash.Sum64(data))
			cmd.Printf("size:  %d bytes\n", len(data))
			cmd.Printf("rect:  (%g, %g) - (%g, %g)\n",
				doc.Rect.MinX, doc.Rect.MinY, doc.Rect.MaxX, doc.Rect.MaxY)
			cmd.Printf("layers (%d):\n", doc.Stack.Len())
			for i := 0; i < doc.Stack.Len(); i++ {
				l := doc.Stack.At(i)
				vis := " "
				if l.Visible() {
					vis = "*"
				}
				if g := l.Graph(); g != nil {
					cmd.Printf("  %2d %s %-5s %-20s %d nodes, %d edges\n",
						i, vis, l.Kind(), l.Name(), g.NodeCount(), g.EdgeCount())
					continue
				}
				p := l.Paint()
				w, h := 0, 0
				if p != nil && p.Pixmap != nil {
					w, h = p.Pixmap.Width(), p.Pixmap.Height()
				}
				cmd.Printf("  %2d %s %-5s %-20s %dx%d px\n", i, vis, l.Kind(), l.Name(), w, h)
			}
			cmd.Printf("materials (%d):\n", len(doc.Materials))
			for i, m := range doc.Materials {
				cmd.Printf("  %2d %s\n", i, m.Name)
			}
			if !doc.Markup.IsEmpty() {
				cmd.Printf("markup: %d spawns, %d finishes, %d boosts, %d bouncers\n",
					len(doc.Markup.Spawns), len(doc.Markup.Finishes),
					len(doc.Markup.Boosts), len(doc.Markup.Bouncers))
			}
			return nil
		},
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/cbmap"
	"github.com/cbmap/mapcore/graph"
	"github.com/cbmap/mapcore/layer"
)

func newDemoCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a small example map archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := demoDocument()
			if err != nil {
				return err
			}
			data, err := cbmap.Pack(doc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return zerr.Wrap(err, "write archive")
			}
			cmd.Printf("wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "demo.cbmap", "output path")
	return cmd
}

// demoDocument builds a small map: a paint backdrop, a steel platform with an
// ice patch, and a spawn point.
func demoDocument() (*cbmap.Document, error) {
	pm := mapcore.NewPixmap(64, 64)
	pm.Clear(mapcore.RGB8(24, 26, 33))
	backdrop := layer.NewPaintLayer("backdrop", &layer.Paint{
		Pixmap: pm,
		Origin: mapcore.Pt(-128, -128),
		Scale:  4,
	})

	g := graph.New()
	left, _ := g.AddNode(graph.Node{Pos: mapcore.Pt(-80, 40), Radius: 16, Material: 1})
	right, _ := g.AddNode(graph.Node{Pos: mapcore.Pt(80, 40), Radius: 16, Material: 1})
	if _, _, err := g.AddEdge(left, right); err != nil {
		return nil, err
	}
	g.AddNode(graph.Node{Pos: mapcore.Pt(0, 36), Radius: 20, Shape: graph.ShapeCircle, Material: 2})

	st := layer.NewStack()
	st.Insert(backdrop, 0)
	st.Insert(layer.NewGraphLayer("terrain", g), 1)

	return &cbmap.Document{
		Stack: st,
		Markup: cbmap.Markup{
			Spawns: []mapcore.Point{mapcore.Pt(0, 0)},
		},
	}, nil
}

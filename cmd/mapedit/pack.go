package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore/cbmap"
)

func newPackCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pack <map.cbmap>",
		Short: "Repack an archive into canonical deterministic form",
		Long: "Repack reads a map archive and writes it back with canonical entry\n" +
			"order, timestamps and compression. Two archives with identical logical\n" +
			"content repack to identical bytes, so their upload hashes match.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return zerr.Wrap(err, "read archive")
			}
			doc, err := cbmap.Unpack(data)
			if err != nil {
				return err
			}
			packed, err := cbmap.Pack(doc)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0]
			}
			if err := os.WriteFile(out, packed, 0o644); err != nil {
				return zerr.Wrap(err, "write archive")
			}
			cmd.Printf("packed %s (%d -> %d bytes)\n", out, len(data), len(packed))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: in place)")
	return cmd
}

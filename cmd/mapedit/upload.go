package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/cbmap/mapcore/assetcache"
)

// dirUploader stores artifacts in a content-addressed directory. It stands in
// for the real transport, which lives outside the core.
type dirUploader struct {
	dir string
}

func (u *dirUploader) Upload(ctx context.Context, hash uint64, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", zerr.Wrap(err, "create store")
	}
	name := fmt.Sprintf("%016x.cbmap", hash)
	path := filepath.Join(u.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", zerr.Wrap(err, "store artifact")
	}
	return "file://" + path, nil
}

func newUploadCmd(flags *rootFlags) *cobra.Command {
	var store string
	cmd := &cobra.Command{
		Use:   "upload <map.cbmap>...",
		Short: "Upload map archives through the asset cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := assetcache.New(&dirUploader{dir: store},
				flags.cfg.Cache.MaxBytes, flags.cfg.Cache.MaxEntries)
			if r := flags.cfg.Upload.RatePerMinute; r > 0 {
				cache.Admission = assetcache.NewRateLimiter(r, flags.cfg.Upload.Burst)
			}

			for _, arg := range args {
				data, err := os.ReadFile(arg)
				if err != nil {
					return zerr.Wrap(err, "read archive")
				}
				res, err := cache.Upload(cmd.Context(), data).Wait(cmd.Context())
				if err != nil {
					return err
				}
				switch res.Outcome {
				case assetcache.OutcomeStored:
					cmd.Printf("%s: stored %s\n", arg, res.Entry.URL)
				case assetcache.OutcomeDeduplicated:
					cmd.Printf("%s: already cached %s\n", arg, res.Entry.URL)
				case assetcache.OutcomeThrottled:
					cmd.Printf("%s: throttled, retry later\n", arg)
				case assetcache.OutcomeFailed:
					return res.Err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&store, "store", "cbmap-store", "artifact store directory")
	return cmd
}

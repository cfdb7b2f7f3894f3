package handlers

import (
	"context"
	"fmt"

	"github.com/cloudprobe/cloudprobe/internal/provisioning/inventory"
	"github.com/cloudprobe/cloudprobe/internal/ui/tui"
)

// List prints the instances, buckets and queues in the configured region.
// Listings that succeeded are printed even when another one failed.
func List(ctx context.Context, configPath string) error {
	cfg, _, cloud, err := connect(ctx, configPath)
	if err != nil {
		return err
	}

	listing, err := inventory.List(ctx, cloud)
	fmt.Fprint(stdout, tui.RenderListing(cfg.Region, listing))
	return err
}

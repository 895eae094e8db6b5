// Command regiongen joins the suburbs/localities CSV export against the
// regional-council polygons export and writes the suburb-to-region lookup
// table served by the API. Offline, run once per dataset refresh.
package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/geo"
	"github.com/thefishingvault-bot/verial-services-sub004/pkg/logging"
)

const (
	suburbsPath = "data/nz-suburbs-localities.csv"
	regionsPath = "data/nz-regional-councils.csv"
	outputPath  = "data/nz-regions-to-suburbs.json"
)

// overrides force-assigns features the geometric pass cannot place. Each
// entry is a reviewed exception, not a policy: add a name here only after
// checking the source geometry by hand.
var overrides = map[string]string{
	"Chatham Islands":  "Canterbury",
	"Pitt Island":      "Canterbury",
	"Rangitoto Island": "Auckland",
}

func main() {
	logging.Setup()

	features, skippedFeatures, err := geo.LoadFeaturesCSV(suburbsPath)
	if err != nil {
		slog.Error("Failed to load suburbs export", "path", suburbsPath, "error", err)
		os.Exit(1)
	}
	regions, skippedRegions, err := geo.LoadRegionsCSV(regionsPath)
	if err != nil {
		slog.Error("Failed to load regions export", "path", regionsPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Inputs loaded",
		"features", len(features),
		"regions", len(regions),
		"skipped_rows", skippedFeatures+skippedRegions,
	)

	result := geo.Generate(features, regions, overrides)

	// Unassigned names are a data-quality warning, not a failure: the
	// table is still written so a partial refresh never blocks a deploy.
	for _, name := range result.Unassigned {
		slog.Warn("Feature not assigned to any region", "name", name)
	}

	output := geo.BuildOutput(result,
		[]string{suburbsPath, regionsPath},
		skippedFeatures+skippedRegions,
		time.Now(),
	)

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		slog.Error("Failed to encode output", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
		slog.Error("Failed to write output", "path", outputPath, "error", err)
		os.Exit(1)
	}

	slog.Info("Lookup table written",
		"path", outputPath,
		"regions", len(output.RegionsToSuburbs),
		"included", output.Stats.Included,
		"unassigned", output.Stats.Unassigned,
	)
}

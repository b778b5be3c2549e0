// Command geoidx is a CLI front end over pkg/rtree: it builds a Tree
// from one of several entry sources and runs a single spatial
// operation against it, printing the result.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kass/go-geo-index/pkg/ais"
	"github.com/kass/go-geo-index/pkg/geoidx"
	"github.com/kass/go-geo-index/pkg/models"
	"github.com/kass/go-geo-index/pkg/postgis"
	"github.com/kass/go-geo-index/pkg/rtree"
)

var log *zap.SugaredLogger

var (
	capacity   int
	numPoints  int
	source     string
	pgHost     string
	pgPort     int
	pgUser     string
	pgPassword string
	pgDatabase string
	aisAddr    string
	aisSeconds int
)

var rootCmd = &cobra.Command{
	Use:   "geoidx",
	Short: "Build and query an in-memory R-tree spatial index",
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a tree from the configured source and report its shape",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}
		start := time.Now()
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}
		elapsed := time.Since(start)

		log.Infow("tree built",
			"entries", humanize.Comma(int64(tree.Size())),
			"depth", tree.Depth(),
			"capacity", capacity,
			"elapsed", elapsed,
		)
		return nil
	},
}

var pointCmd = &cobra.Command{
	Use:   "point <lat> <lon>",
	Short: "Find every entry whose bounding rectangle contains a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseXY(args[0], args[1])
		if err != nil {
			return err
		}
		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}
		hits := tree.SearchAllPoint(x, y)
		log.Infow("point query", "x", x, "y", y, "hits", len(hits))
		for _, e := range hits {
			fmt.Printf("%v\n", e.Payload)
		}
		return nil
	},
}

var nearestCmd = &cobra.Command{
	Use:   "nearest <lat> <lon>",
	Short: "Find the nearest entry to a point using the spherical-earth metric",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseXY(args[0], args[1])
		if err != nil {
			return err
		}
		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}
		entry, dist, ok := tree.Nearest(x, y, rtree.SphericalEarth)
		if !ok {
			log.Infow("nearest query found nothing", "x", x, "y", y)
			return nil
		}
		log.Infow("nearest query", "x", x, "y", y, "distance_km", dist)
		fmt.Printf("%v (%.2f km)\n", entry.Payload, dist)
		return nil
	},
}

var rectCmd = &cobra.Command{
	Use:   "rect <lat1> <lon1> <lat2> <lon2>",
	Short: "Find every entry whose bounding rectangle intersects a box",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		x1, y1, err := parseXY(args[0], args[1])
		if err != nil {
			return err
		}
		x2, y2, err := parseXY(args[2], args[3])
		if err != nil {
			return err
		}
		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}
		box := rtree.MBR{X1: float32(x1), Y1: float32(y1), X2: float32(x2), Y2: float32(y2)}
		hits := tree.SearchAllRect(box)
		log.Infow("rect query", "box", box, "hits", len(hits))
		for _, e := range hits {
			fmt.Printf("%v\n", e.Payload)
		}
		return nil
	},
}

var mergeCount int

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Build a tree, merge in a batch of random entries, and report the size change",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}
		before := tree.Size()
		merged, err := rtree.Merge(tree, randomEntries(mergeCount), capacity)
		if err != nil {
			return fmt.Errorf("merge tree: %w", err)
		}
		log.Infow("merge complete",
			"before", humanize.Comma(int64(before)),
			"after", humanize.Comma(int64(merged.Size())),
			"inserted", mergeCount,
		)
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <lat> <lon> <radius_km>",
	Short: "Build a tree and remove every entry within a radius of a point",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lon, err := parseXY(args[0], args[1])
		if err != nil {
			return err
		}
		var radiusKm float64
		if _, err := fmt.Sscanf(args[2], "%g", &radiusKm); err != nil {
			return fmt.Errorf("parse radius: %w", err)
		}
		entries, err := loadEntries(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := rtree.Build(entries, capacity)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}

		all := tree.Entries()
		var removals []rtree.Entry[models.POI]
		for _, e := range all {
			if d := rtree.SphericalEarth.Distance(lat, lon, e.MBR); d <= radiusKm {
				removals = append(removals, e)
			}
		}

		// The multiset subtraction goes through geoidx's hash-keyed radix
		// index instead of the plain map rtree.Diff tallies internally.
		remaining := geoidx.Subtract(all, removals)
		diffed, err := rtree.Build(remaining, capacity)
		if err != nil {
			return fmt.Errorf("rebuild tree: %w", err)
		}

		log.Infow("diff complete",
			"before", humanize.Comma(int64(tree.Size())),
			"removed", len(removals),
			"after", humanize.Comma(int64(diffed.Size())),
		)
		return nil
	},
}

func parseXY(latArg, lonArg string) (float64, float64, error) {
	var x, y float64
	if _, err := fmt.Sscanf(latArg, "%g", &x); err != nil {
		return 0, 0, fmt.Errorf("parse lat: %w", err)
	}
	if _, err := fmt.Sscanf(lonArg, "%g", &y); err != nil {
		return 0, 0, fmt.Errorf("parse lon: %w", err)
	}
	return x, y, nil
}

func loadEntries(ctx context.Context) ([]rtree.Entry[models.POI], error) {
	switch source {
	case "random":
		return randomEntries(numPoints), nil
	case "postgis":
		src, err := postgis.Open(pgHost, pgUser, pgPassword, pgDatabase, pgPort)
		if err != nil {
			return nil, fmt.Errorf("connect to postgis: %w", err)
		}
		defer src.Close()
		return src.Entries()
	case "ais":
		return aisEntries(ctx)
	default:
		return nil, fmt.Errorf("unknown source %q (want random, postgis, or ais)", source)
	}
}

// randomEntries mirrors a real-world point distribution: most traffic
// clusters around a handful of population centers, with a long tail
// of uniformly scattered points.
func randomEntries(n int) []rtree.Entry[models.POI] {
	regions := []struct {
		minLat, maxLat, minLon, maxLon float64
	}{
		{30, 60, -120, -60},  // North America
		{40, 60, -10, 30},    // Europe
		{20, 60, 60, 140},    // Asia
		{-50, -10, -80, -50}, // South America
	}

	entries := make([]rtree.Entry[models.POI], n)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		var lat, lon float64
		if roll := r.Intn(5); roll < len(regions) {
			reg := regions[roll]
			lat = reg.minLat + r.Float64()*(reg.maxLat-reg.minLat)
			lon = reg.minLon + r.Float64()*(reg.maxLon-reg.minLon)
		} else {
			lat = r.Float64()*180 - 90
			lon = r.Float64()*360 - 180
		}
		x, y := float32(lat), float32(lon)
		entries[i] = rtree.Entry[models.POI]{
			MBR:     rtree.MBR{X1: x, Y1: y, X2: x, Y2: y},
			Payload: models.POI{ID: uuid.NewString(), Name: fmt.Sprintf("point-%d", i)},
		}
	}
	return entries
}

func aisEntries(parent context.Context) ([]rtree.Entry[models.POI], error) {
	ctx, cancel := context.WithTimeout(parent, time.Duration(aisSeconds)*time.Second)
	defer cancel()

	reports := make(chan ais.Report, 256)
	errCh := make(chan error, 1)
	go func() { errCh <- ais.Feed(ctx, aisAddr, reports) }()

	var entries []rtree.Entry[models.POI]
collect:
	for {
		select {
		case r := <-reports:
			entries = append(entries, rtree.Entry[models.POI]{
				MBR:     r.Entry.MBR,
				Payload: models.POI{ID: fmt.Sprintf("mmsi-%d", r.Entry.Payload.MMSI), Name: r.Entry.Payload.String()},
			})
		case <-ctx.Done():
			break collect
		}
	}
	log.Infow("ais feed window closed", "entries", len(entries))
	return entries, nil
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&capacity, "capacity", "c", 16, "maximum children per tree node")
	rootCmd.PersistentFlags().StringVarP(&source, "source", "s", "random", "entry source: random, postgis, or ais")
	rootCmd.PersistentFlags().IntVarP(&numPoints, "points", "n", 100000, "number of random points (source=random)")
	rootCmd.PersistentFlags().StringVar(&pgHost, "pg-host", "localhost", "PostGIS host (source=postgis)")
	rootCmd.PersistentFlags().IntVar(&pgPort, "pg-port", 5432, "PostGIS port (source=postgis)")
	rootCmd.PersistentFlags().StringVar(&pgUser, "pg-user", "postgres", "PostGIS user (source=postgis)")
	rootCmd.PersistentFlags().StringVar(&pgPassword, "pg-password", "", "PostGIS password (source=postgis)")
	rootCmd.PersistentFlags().StringVar(&pgDatabase, "pg-database", "geodb", "PostGIS database (source=postgis)")
	rootCmd.PersistentFlags().StringVar(&aisAddr, "ais-addr", "", "AIS TCP feed address, host:port (source=ais)")
	rootCmd.PersistentFlags().IntVar(&aisSeconds, "ais-seconds", 30, "how long to collect AIS reports before building (source=ais)")
	mergeCmd.Flags().IntVarP(&mergeCount, "insert", "i", 1000, "number of random entries to merge in")

	rootCmd.AddCommand(buildCmd, pointCmd, rectCmd, nearestCmd, mergeCmd, diffCmd)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log = logger.Sugar()

	if err := rootCmd.Execute(); err != nil {
		log.Errorw("command failed", "error", err)
		os.Exit(1)
	}
}

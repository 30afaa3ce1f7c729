package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
	"github.com/jstittsworth/draftsheet/internal/services"
)

var (
	configPath  = flag.String("config", "config/leagues.json", "league profiles file")
	profileName = flag.String("profile", "", "profile name inside the config file (default: first profile)")
	dataDir     = flag.String("data", "", "directory relative source paths resolve against")
	adpPath     = flag.String("adp", "", "override the profile's ADP CSV path")
	outDir      = flag.String("out", "out", "directory for the generated CSVs")
	positions   = flag.String("positions", "", "comma-separated position sheets to write (default: all)")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	name := *profileName
	if name == "" {
		names, err := league.ProfileNames(*configPath)
		if err != nil || len(names) == 0 {
			logger.Fatalf("No profiles found in %s: %v", *configPath, err)
		}
		name = names[0]
	}

	profile, err := league.Load(*configPath, name)
	if err != nil {
		logger.Fatalf("Failed to load league profile: %v", err)
	}
	profile.ResolvePaths(*dataDir)
	if *adpPath != "" {
		profile.Paths.ADPCSV = *adpPath
	}

	sheets := services.NewSheetService(profile, services.NewCacheService(nil), 0, logger)
	sheet, err := sheets.Current()
	if err != nil {
		logger.Fatalf("Failed to build cheat sheet: %v", err)
	}

	for _, w := range sheet.Warnings {
		logger.WithField("kind", w.Kind).Warn(w.Message)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatalf("Failed to create output directory: %v", err)
	}

	writeCSV(logger, filepath.Join(*outDir, "overall.csv"), func(f *os.File) error {
		return cheatsheet.OverallCSV(f, sheet.Overall)
	})
	writeCSV(logger, filepath.Join(*outDir, "draft_board.csv"), func(f *os.File) error {
		return cheatsheet.BoardCSV(f, sheet.Board)
	})

	for _, pos := range selectPositions(sheet) {
		records := sheet.ByPosition[pos]
		if len(records) == 0 {
			continue
		}
		path := filepath.Join(*outDir, strings.ToLower(string(pos))+".csv")
		writeCSV(logger, path, func(f *os.File) error {
			return cheatsheet.PositionCSV(f, records)
		})
	}

	logger.WithFields(logrus.Fields{
		"profile":  sheet.Profile,
		"players":  len(sheet.Overall),
		"warnings": len(sheet.Warnings),
		"out":      *outDir,
	}).Info("Cheat sheet written")
}

// selectPositions honors -positions when given, otherwise every position
// on the sheet.
func selectPositions(sheet *cheatsheet.Sheet) []draft.Position {
	if *positions == "" {
		return sheet.Positions()
	}

	var out []draft.Position
	for _, raw := range strings.Split(*positions, ",") {
		pos := draft.ParsePosition(raw)
		if pos == "" {
			logrus.Warnf("Skipping unknown position %q", raw)
			continue
		}
		out = append(out, pos)
	}
	return out
}

func writeCSV(logger *logrus.Logger, path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		logger.Fatalf("Failed to write %s: %v", path, err)
	}
	logger.Infof("Wrote %s", path)
}

package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/election"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/workbook"
)

// DefaultUnmatchedLimit caps how many unresolved assembly names are logged.
const DefaultUnmatchedLimit = 10

// AssemblySource lists the (ac_id, ac_name) pairs already stored.
type AssemblySource interface {
	AssemblyRefs(ctx context.Context) ([]models.AssemblyRef, error)
}

// Options tune a seeding run.
type Options struct {
	BatchSize      int
	BackupPath     string
	UnmatchedLimit int
}

// Sheets lists every sheet a run reads.
func Sheets() []string {
	return []string{
		election.Layout2009.Sheet,
		election.Layout2014.Sheet,
		election.Layout2019.Sheet,
		election.Layout2024.Sheet,
	}
}

// Parsed holds every year's parser output.
type Parsed struct {
	Y2009 models.StationRecords
	Y2014 models.StationRecords
	Y2019 models.StationRecords
	Y2024 models.AssemblyBlocks
}

// Summary reports what a run did.
type Summary struct {
	Parsed2009     int
	Parsed2014     int
	Parsed2019     int
	Stations2024   int
	Assemblies2024 int
	Merged         int
	Reconciled     int
	Fuzzy          []string
	Unmatched      []string
	Written        int
}

// Seeder runs the parse, merge, reconcile and upload phases.
type Seeder struct {
	uploader   *Uploader
	assemblies AssemblySource
	opts       Options
	logger     *slog.Logger
}

// New wires a seeder. The committer receives every batch; assemblies is read
// once, only when the workbook has 2024 data.
func New(committer Committer, assemblies AssemblySource, opts Options, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.UnmatchedLimit <= 0 {
		opts.UnmatchedLimit = DefaultUnmatchedLimit
	}
	return &Seeder{
		uploader:   NewUploader(committer, opts.BatchSize, logger),
		assemblies: assemblies,
		opts:       opts,
		logger:     logger,
	}
}

// Parse runs each year's parser in turn.
func Parse(wb *workbook.Workbook) (Parsed, error) {
	var p Parsed
	for _, layout := range []struct {
		fixed election.FixedLayout
		dst   *models.StationRecords
	}{
		{election.Layout2009, &p.Y2009},
		{election.Layout2014, &p.Y2014},
		{election.Layout2019, &p.Y2019},
	} {
		rows, err := wb.Rows(layout.fixed.Sheet)
		if err != nil {
			return p, err
		}
		*layout.dst = layout.fixed.Parse(rows)
	}

	rows, err := wb.Rows(election.Layout2024.Sheet)
	if err != nil {
		return p, err
	}
	p.Y2024 = election.Layout2024.Parse(rows)
	return p, nil
}

// Run seeds the store from wb. Batches committed before a failure stay
// committed.
func (s *Seeder) Run(ctx context.Context, wb *workbook.Workbook) (Summary, error) {
	var sum Summary

	parsed, err := Parse(wb)
	if err != nil {
		return sum, fmt.Errorf("parse workbook: %w", err)
	}
	sum.Parsed2009 = len(parsed.Y2009)
	sum.Parsed2014 = len(parsed.Y2014)
	sum.Parsed2019 = len(parsed.Y2019)
	sum.Stations2024 = parsed.Y2024.StationCount()
	sum.Assemblies2024 = len(parsed.Y2024)
	s.logger.Info("parsed sheets",
		slog.Int("booths_2009", sum.Parsed2009),
		slog.Int("booths_2014", sum.Parsed2014),
		slog.Int("booths_2019", sum.Parsed2019),
		slog.Int("booths_2024", sum.Stations2024),
		slog.Int("assemblies_2024", sum.Assemblies2024))

	if s.opts.BackupPath != "" {
		if err := WriteBackup(s.opts.BackupPath, parsed.Y2024); err != nil {
			return sum, err
		}
		s.logger.Info("2024 data saved as backup", slog.String("path", s.opts.BackupPath))
	}

	docs := election.Merge(
		election.YearRecords{Year: models.Year2009, Records: parsed.Y2009},
		election.YearRecords{Year: models.Year2014, Records: parsed.Y2014},
		election.YearRecords{Year: models.Year2019, Records: parsed.Y2019},
	)
	sum.Merged = len(docs)
	s.logger.Info("uploading 2009/2014/2019 election data", slog.Int("stations", sum.Merged))

	sum.Written, err = s.uploader.Upload(ctx, docs, sum.Written)
	if err != nil {
		return sum, fmt.Errorf("upload 2009/2014/2019: %w", err)
	}

	if len(parsed.Y2024) == 0 {
		return sum, nil
	}

	s.logger.Info("building assembly name index")
	refs, err := s.assemblies.AssemblyRefs(ctx)
	if err != nil {
		return sum, fmt.Errorf("build assembly index: %w", err)
	}
	idx := election.NewAssemblyIndex(refs)
	s.logger.Info("assembly name index ready", slog.Int("assemblies", idx.Len()))

	res := election.Reconcile(parsed.Y2024, idx, models.Year2024)
	sum.Reconciled = len(res.Documents)
	sum.Fuzzy = res.Fuzzy
	sum.Unmatched = res.Unmatched
	for _, name := range res.Fuzzy {
		s.logger.Info("assembly matched by containment", slog.String("name", name), slog.String("ac_id", res.Matched[name]))
	}

	s.logger.Info("uploading 2024 election data", slog.Int("stations", sum.Reconciled))
	sum.Written, err = s.uploader.Upload(ctx, res.Documents, sum.Written)
	if err != nil {
		return sum, fmt.Errorf("upload 2024: %w", err)
	}

	if len(res.Unmatched) > 0 {
		shown := res.Unmatched
		if len(shown) > s.opts.UnmatchedLimit {
			shown = shown[:s.opts.UnmatchedLimit]
		}
		s.logger.Warn("could not match assemblies from 2024 sheet",
			slog.Int("count", len(res.Unmatched)),
			slog.Any("names", shown))
	}

	return sum, nil
}

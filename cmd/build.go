package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/custody"
	"github.com/etnz/fundscope/date"
	"github.com/etnz/fundscope/regulator"
	"github.com/etnz/fundscope/statement"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type buildCmd struct {
	mode   string
	months int
}

func (*buildCmd) Name() string { return "build" }
func (*buildCmd) Synopsis() string {
	return "fetch all sources and rebuild the consolidated snapshot artifact"
}
func (*buildCmd) Usage() string {
	return `fsc build [-mode <incremental|full|ci>] [-months <n>]

  Fetches the custody feed, local vendor statements and the regulator's
  monthly archives, reconciles everything into one consolidated table, and
  persists it with the build metadata. Each run replaces the previous
  snapshot wholesale.

  Modes:
    incremental  respect download caches (default)
    full         re-download every archive, even finalized months
    ci           restricted run: cached and local inputs only, no network
`
}

func (p *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.mode, "mode", "incremental", "Build mode (incremental, full, ci).")
	f.IntVar(&p.months, "months", 0, "How many months of bulk archives to cover (0 uses the configured value).")
}

func (p *buildCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	config, err := AppConfig()
	if err != nil {
		return fail(err)
	}
	if p.mode != "incremental" && p.mode != "full" && p.mode != "ci" {
		return fail(fmt.Errorf("unknown build mode %q", p.mode))
	}
	months := config.Regulator.Months
	if p.months > 0 {
		months = p.months
	}

	// Inputs.
	registry, err := fundscope.LoadRegistry(config.Data.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, no fund registry found, building without feeder substitution")
		registry, err = fundscope.NewRegistry(), nil
	}
	if err != nil {
		return fail(err)
	}
	table, err := fundscope.LoadSectorTable(config.Data.Dir)
	if err != nil {
		return fail(err)
	}
	classifier := fundscope.NewClassifier(table)

	var filings []*fundscope.Filing
	filings = append(filings, p.fetchCustody(config)...)
	filings = append(filings, p.fetchStatements(config)...)

	client := regulator.NewClient(config.Regulator.BaseURL, &regulator.DiskCache{Dir: config.Regulator.CacheDir}, config.RegulatorTTL())
	client.Offline = p.mode == "ci"
	client.Force = p.mode == "full"
	filings = append(filings, p.fetchRegulator(client, months)...)
	filings = client.ExpandFundOfFunds(filings)

	// Reconcile and persist.
	now := date.Today()
	consolidated := fundscope.Reconcile(filings, registry, classifier, now)
	log.Printf("reconciled %d filings into %d rows", len(filings), consolidated.Len())

	if err := fundscope.SaveSnapshot(config.Data.Dir, consolidated); err != nil {
		return fail(err)
	}
	meta := fundscope.BuildMeta{
		RunID:   uuid.NewString(),
		BuiltAt: time.Now().UTC(),
		Mode:    p.mode,
		Rows:    consolidated.Len(),
	}
	if err := fundscope.SaveMeta(config.Data.Dir, meta); err != nil {
		return fail(err)
	}

	fmt.Printf("Built snapshot %s: %d rows from %d filings.\n", meta.RunID, meta.Rows, len(filings))
	return subcommands.ExitSuccess
}

// fetchCustody pulls the custody feed. An absent session or an unreachable
// portal skips the whole source: the regulator data still covers the funds.
func (p *buildCmd) fetchCustody(config Config) []*fundscope.Filing {
	if p.mode == "ci" {
		log.Println("ci mode, skipping custody feed")
		return nil
	}
	headers, err := custody.LoadHeaders()
	if err != nil {
		log.Printf("skipping custody feed: %v", err)
		return nil
	}
	filings, err := custody.NewClient(config.Custody.BaseURL, headers).Fetch()
	if err != nil {
		log.Printf("skipping custody feed: %v", err)
		return nil
	}
	return filings
}

// fetchStatements parses the local vendor PDF statements, if any.
func (p *buildCmd) fetchStatements(config Config) []*fundscope.Filing {
	if config.Statements.Dir == "" {
		return nil
	}
	paths, err := filepath.Glob(filepath.Join(config.Statements.Dir, "*.pdf"))
	if err != nil {
		log.Printf("skipping statements: %v", err)
		return nil
	}
	var filings []*fundscope.Filing
	for _, path := range paths {
		filing, err := statement.ParseFile(path)
		if err != nil {
			log.Printf("skip statement %s: %v", path, err)
			continue
		}
		filings = append(filings, filing)
	}
	log.Printf("statements: %d files, %d filings parsed", len(paths), len(filings))
	return filings
}

// fetchRegulator pulls the last months of bulk archives. A month that cannot
// be fetched or parsed is skipped, it never aborts the batch.
func (p *buildCmd) fetchRegulator(client *regulator.Client, months int) []*fundscope.Filing {
	current := regulator.MonthOf(date.Today())
	var filings []*fundscope.Filing
	for _, period := range regulator.Months(current.Add(1-months), current) {
		list, err := client.FetchMonth(period)
		if err != nil {
			log.Printf("skip archive %s: %v", period, err)
			continue
		}
		filings = append(filings, list...)
	}
	return filings
}

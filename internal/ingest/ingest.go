// Package ingest orchestrates reference-data loading: it fetches the
// workbooks concurrently, parses them, builds a fresh catalog and publishes
// it atomically. A source that cannot be fetched falls back to a small
// static dataset so the entry form keeps working offline.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hoitkn/processqa/internal/catalog"
	"github.com/hoitkn/processqa/internal/refdata"
	"github.com/hoitkn/processqa/internal/source"
)

// Config names the reference workbooks. RiceNoodlePath is optional; sites
// without a rice-noodle process leave it empty.
type Config struct {
	EmployeesPath  string
	NoodlePath     string
	RiceNoodlePath string
}

// Ingestor loads reference data into a catalog store.
type Ingestor struct {
	fetcher source.Fetcher
	store   *catalog.Store
	cfg     Config

	// OnSwap, when set, runs after every successful publish. The server
	// uses it to log generation changes; tests use it to observe swaps.
	OnSwap func(*catalog.Catalog)
}

// New builds an ingestor over the given fetcher and store.
func New(fetcher source.Fetcher, store *catalog.Store, cfg Config) *Ingestor {
	return &Ingestor{fetcher: fetcher, store: store, cfg: cfg}
}

// Run performs one ingestion pass: all configured sources are fetched in
// parallel, parsed, assembled into a catalog and swapped into the store.
// An unavailable source degrades to its fallback dataset and is logged,
// never fatal; readers always end up with a complete catalog.
func (i *Ingestor) Run(ctx context.Context) error {
	var (
		employees  []refdata.Employee
		noodle     []refdata.NoodleCondition
		riceNoodle []refdata.RiceNoodleCondition
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := i.fetcher.Fetch(ctx, i.cfg.EmployeesPath)
		if err != nil {
			if !errors.Is(err, source.ErrUnavailable) {
				return err
			}
			slog.Warn("employee roster unavailable, using fallback data", "error", err)
			employees = fallbackEmployees()
			return nil
		}
		employees = refdata.LoadEmployees(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := i.fetcher.Fetch(ctx, i.cfg.NoodlePath)
		if err != nil {
			if !errors.Is(err, source.ErrUnavailable) {
				return err
			}
			slog.Warn("noodle condition sheet unavailable, using fallback data", "error", err)
			noodle = fallbackNoodleConditions()
			return nil
		}
		noodle = refdata.LoadNoodleConditions(rows)
		return nil
	})
	if i.cfg.RiceNoodlePath != "" {
		g.Go(func() error {
			rows, err := i.fetcher.Fetch(ctx, i.cfg.RiceNoodlePath)
			if err != nil {
				if !errors.Is(err, source.ErrUnavailable) {
					return err
				}
				// No static fallback exists for rice noodle; the catalog
				// simply carries none until the sheet comes back.
				slog.Warn("rice-noodle condition sheet unavailable", "error", err)
				return nil
			}
			riceNoodle = refdata.LoadRiceNoodleConditions(rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c := catalog.New(employees, noodle, riceNoodle)
	i.store.Swap(c)

	ne, nn, nr := c.Counts()
	slog.Info("reference data loaded",
		"generation", c.Generation(),
		"employees", ne, "noodle_conditions", nn, "rice_noodle_conditions", nr)

	if i.OnSwap != nil {
		i.OnSwap(c)
	}
	return nil
}

// RunPeriodic re-ingests on a fixed interval until ctx is cancelled. The
// first pass is the caller's responsibility so startup can observe its
// outcome directly.
func (i *Ingestor) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := i.Run(ctx); err != nil {
				slog.Warn("periodic reference reload failed", "error", err)
			}
		}
	}
}

func ptr(v float64) *float64 { return &v }

// fallbackEmployees mirrors the static roster the deployed form ships for
// offline starts.
func fallbackEmployees() []refdata.Employee {
	return []refdata.Employee{
		{
			EmployeeID:  "15MB00270",
			Name:        "Ta Thị Thái",
			Site:        "MMB",
			Group:       "Mì",
			Role:        "Nhân viên",
			Active:      true,
			Permissions: []string{"read", "write"},
		},
		{
			EmployeeID:  "17MB01251",
			Name:        "Lê Khoa",
			Site:        "MMB",
			Group:       "Mâm, CSD",
			Role:        "Quản lý",
			Active:      true,
			Permissions: []string{"read", "write", "delete", "admin"},
		},
	}
}

// fallbackNoodleConditions is the single known-good process condition used
// when the sheet cannot be fetched.
func fallbackNoodleConditions() []refdata.NoodleCondition {
	return []refdata.NoodleCondition{
		{
			ProcessCode: "99PH00090",
			UnifiedName: "KKM65 MB TCC",
			Site:        "MMB",
			Line:        "L6",
			BrixKansui:  refdata.Range{Min: ptr(8.0), Max: ptr(8.3)},
			TempKansui:  refdata.Range{Min: ptr(14), Max: ptr(16)},
			BrixSeasoning: refdata.Range{
				Min: ptr(5.2), Max: ptr(5.6),
			},
			Thickness: refdata.Range{Min: ptr(0.88), Max: ptr(0.91)},
		},
	}
}

// Package store provides SQLite-backed storage for saved scenarios and
// projection run history.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/scenario"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a named scenario does not exist.
var ErrNotFound = errors.New("scenario not found")

// Store wraps the scenario database.
type Store struct {
	db *sql.DB
}

// Run is one recorded projection.
type Run struct {
	ID                int64
	Scenario          string
	RunAt             time.Time
	HorizonMonths     int
	InitialInvestment float64
	MonthlyNetBenefit float64
	BreakevenMonth    int // 0 when the run never broke even
	FinalROIPercent   float64
	FinalNetSavings   float64
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "meshroi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "meshroi")
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	return filepath.Join(CacheDir(), "meshroi.db")
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScenario inserts or replaces a scenario by name.
func (s *Store) SaveScenario(sc scenario.Scenario) error {
	if sc.Name == "" {
		return errors.New("scenario name is required")
	}
	p := sc.Params
	_, err := s.db.Exec(`INSERT OR REPLACE INTO scenarios
		(name, description, horizon_months, initial_investment, monthly_savings, monthly_om,
		 units_per_month, manual_cost_per_unit, ai_cost_per_unit, unit_scale, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.Name, sc.Description, sc.Horizon, p.InitialInvestment, p.MonthlySavings, p.MonthlyOM,
		p.UnitsPerMonth, p.ManualCostPerUnit, p.AICostPerUnit, p.UnitScale,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving scenario %q: %w", sc.Name, err)
	}
	return nil
}

const scenarioColumns = `name, description, horizon_months, initial_investment, monthly_savings,
	monthly_om, units_per_month, manual_cost_per_unit, ai_cost_per_unit, unit_scale`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(r rowScanner) (scenario.Scenario, error) {
	var sc scenario.Scenario
	var desc sql.NullString
	p := &sc.Params
	err := r.Scan(&sc.Name, &desc, &sc.Horizon, &p.InitialInvestment, &p.MonthlySavings,
		&p.MonthlyOM, &p.UnitsPerMonth, &p.ManualCostPerUnit, &p.AICostPerUnit, &p.UnitScale)
	if err != nil {
		return sc, err
	}
	if desc.Valid {
		sc.Description = desc.String
	}
	return sc, nil
}

// LoadScenario returns the named scenario or ErrNotFound.
func (s *Store) LoadScenario(name string) (scenario.Scenario, error) {
	row := s.db.QueryRow("SELECT "+scenarioColumns+" FROM scenarios WHERE name = ?", name)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return sc, err
}

// ListScenarios returns all saved scenarios ordered by name.
func (s *Store) ListScenarios() ([]scenario.Scenario, error) {
	rows, err := s.db.Query("SELECT " + scenarioColumns + " FROM scenarios ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []scenario.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// DeleteScenario removes a scenario. Deleting a missing name returns
// ErrNotFound.
func (s *Store) DeleteScenario(name string) error {
	res, err := s.db.Exec("DELETE FROM scenarios WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// ScenarioCount returns the number of saved scenarios.
func (s *Store) ScenarioCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM scenarios").Scan(&count)
	return count, err
}

// RecordRun stores the headline figures of a projection.
func (s *Store) RecordRun(sum report.Summary) error {
	var breakeven sql.NullInt64
	if sum.Series.HasBreakeven {
		breakeven = sql.NullInt64{Int64: int64(sum.Series.BreakevenMonth), Valid: true}
	}

	_, err := s.db.Exec(`INSERT INTO runs
		(scenario, run_at, horizon_months, initial_investment, monthly_net_benefit,
		 breakeven_month, final_roi_percent, final_net_savings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Name, time.Now().UTC().Format(time.RFC3339Nano), sum.Input.HorizonMonths,
		sum.Input.InitialInvestment, sum.Input.MonthlyNetBenefit, breakeven,
		sum.Metrics.FinalROIPercent, sum.Metrics.FinalNetSavings,
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT id, scenario, run_at, horizon_months, initial_investment,
		monthly_net_benefit, breakeven_month, final_roi_percent, final_net_savings
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var name sql.NullString
		var runAt string
		var breakeven sql.NullInt64
		if err := rows.Scan(&r.ID, &name, &runAt, &r.HorizonMonths, &r.InitialInvestment,
			&r.MonthlyNetBenefit, &breakeven, &r.FinalROIPercent, &r.FinalNetSavings); err != nil {
			return nil, err
		}
		r.Scenario = name.String
		r.RunAt, _ = time.Parse(time.RFC3339Nano, runAt)
		if breakeven.Valid {
			r.BreakevenMonth = int(breakeven.Int64)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

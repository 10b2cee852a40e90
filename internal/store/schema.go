package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    name                 TEXT PRIMARY KEY,
    description          TEXT,
    horizon_months       INTEGER NOT NULL,
    initial_investment   REAL NOT NULL,
    monthly_savings      REAL NOT NULL,
    monthly_om           REAL NOT NULL,
    units_per_month      REAL NOT NULL,
    manual_cost_per_unit REAL NOT NULL,
    ai_cost_per_unit     REAL NOT NULL,
    unit_scale           REAL NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    scenario             TEXT,
    run_at               TEXT NOT NULL,
    horizon_months       INTEGER NOT NULL,
    initial_investment   REAL NOT NULL,
    monthly_net_benefit  REAL NOT NULL,
    breakeven_month      INTEGER,
    final_roi_percent    REAL NOT NULL,
    final_net_savings    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_run_at ON runs(run_at);
`

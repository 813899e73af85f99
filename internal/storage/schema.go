package storage

const schema = `
-- Scan runs
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    started_at DATETIME NOT NULL,
    completed_at DATETIME NOT NULL,
    components INTEGER NOT NULL DEFAULT 0,
    practicing INTEGER NOT NULL DEFAULT 0,
    violations INTEGER NOT NULL DEFAULT 0,
    unknown INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

-- Evaluation records per run
CREATE TABLE IF NOT EXISTS records (
    run_id TEXT NOT NULL,
    practice_id TEXT NOT NULL,
    component TEXT NOT NULL,
    language TEXT NOT NULL,
    result TEXT NOT NULL,
    is_on INTEGER NOT NULL DEFAULT 1,
    impact TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, practice_id, component),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
CREATE INDEX IF NOT EXISTS idx_records_practice ON records(practice_id);
`

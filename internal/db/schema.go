package db

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    source_path TEXT NOT NULL,
    output_path TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    html_sha256 TEXT NOT NULL DEFAULT '',
    pdf_size INTEGER NOT NULL DEFAULT 0,
    converted_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversions_output_path ON conversions(output_path);
CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id);
`

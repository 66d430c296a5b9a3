package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS views (
    resource             TEXT PRIMARY KEY,
    page                 INTEGER NOT NULL DEFAULT 0,
    page_size            INTEGER NOT NULL,
    ordering             TEXT NOT NULL DEFAULT '',
    filters              TEXT NOT NULL DEFAULT '[]',
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_views_updated ON views(updated_at);
`

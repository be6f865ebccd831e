package store

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    name TEXT PRIMARY KEY,
    source TEXT,
    imported_at TIMESTAMP NOT NULL,
    transaction_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    dataset TEXT NOT NULL,
    position INTEGER NOT NULL,
    items TEXT NOT NULL,
    PRIMARY KEY (dataset, position),
    FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_transactions_dataset ON transactions(dataset);
`

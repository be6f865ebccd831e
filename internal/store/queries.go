package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

// SaveDataset stores txs under name, replacing any dataset with that name.
// The transactions are written in a single SQL transaction.
func (s *Store) SaveDataset(name, source string, txs []itemset.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// ON DELETE CASCADE removes the old rows
	if _, err := tx.Exec(`DELETE FROM datasets WHERE name = ?`, name); err != nil {
		return wrapQueryErr(err, "failed to replace dataset %s", name)
	}

	_, err = tx.Exec(`
		INSERT INTO datasets (name, source, imported_at, transaction_count)
		VALUES (?, ?, ?, ?)
	`, name, source, time.Now().UTC().Format(time.RFC3339), len(txs))
	if err != nil {
		return wrapQueryErr(err, "failed to insert dataset %s", name)
	}

	stmt, err := tx.Prepare(`INSERT INTO transactions (dataset, position, items) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		itemsJSON, err := json.Marshal(t.Items())
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		if _, err := stmt.Exec(name, i, string(itemsJSON)); err != nil {
			return fmt.Errorf("failed to insert transaction %d of %s: %w", i, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset %s: %w", name, err)
	}
	return nil
}

// GetDataset retrieves dataset metadata by name.
func (s *Store) GetDataset(name string) (*Dataset, error) {
	query := `
		SELECT name, source, imported_at, transaction_count
		FROM datasets
		WHERE name = ?
	`

	var ds Dataset
	var importedAt string
	err := s.db.QueryRow(query, name).Scan(&ds.Name, &ds.Source, &importedAt, &ds.TransactionCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err != nil {
		return nil, wrapQueryErr(err, "failed to get dataset %s", name)
	}

	ds.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imported_at for %s: %w", name, err)
	}

	return &ds, nil
}

// ListDatasets returns all datasets ordered by name.
func (s *Store) ListDatasets() ([]*Dataset, error) {
	query := `
		SELECT name, source, imported_at, transaction_count
		FROM datasets
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to list datasets")
	}
	defer rows.Close()

	var datasets []*Dataset
	for rows.Next() {
		var ds Dataset
		var importedAt string
		if err := rows.Scan(&ds.Name, &ds.Source, &importedAt, &ds.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}

		ds.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse imported_at for %s: %w", ds.Name, err)
		}

		datasets = append(datasets, &ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}

	return datasets, nil
}

// LoadTransactions returns the transactions of a dataset in import order.
func (s *Store) LoadTransactions(name string) ([]itemset.Transaction, error) {
	if _, err := s.GetDataset(name); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT items
		FROM transactions
		WHERE dataset = ?
		ORDER BY position
	`, name)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to load transactions for %s", name)
	}
	defer rows.Close()

	var txs []itemset.Transaction
	for rows.Next() {
		var itemsJSON string
		if err := rows.Scan(&itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		var items []string
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items for %s: %w", name, err)
		}
		txs = append(txs, itemset.New(items...))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// DeleteDataset removes a dataset and its transactions.
func (s *Store) DeleteDataset(name string) error {
	result, err := s.db.Exec(`DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return wrapQueryErr(err, "failed to delete dataset %s", name)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}

	return nil
}

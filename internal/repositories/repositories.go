package repositories

import (
	"database/sql"
	"fmt"
)

// sequenceTables lists the tables that carry a "<table>_sequence" counter.
var sequenceTables = map[string]string{
	"runs": "runs_sequence",
}

// NextSequence atomically increments and returns the next sequence number for the given table.
func NextSequence(db *sql.DB, table string) (int, error) {
	sequenceTable, ok := sequenceTables[table]
	if !ok {
		return 0, fmt.Errorf("no sequence for table %q", table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", sequenceTable)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	return sequence, nil
}

package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultDataDir is where SQL Server keeps its data files inside the
// official Linux container.
const DefaultDataDir = "/var/opt/mssql/data"

// RestoreRepository restores the billing database from a .bak file. It must
// connect to the master database, not the database being replaced.
type RestoreRepository struct {
	db       *sql.DB
	database string
	dataDir  string
}

// NewRestoreRepository creates a new RestoreRepository
func NewRestoreRepository(db *sql.DB, database, dataDir string) *RestoreRepository {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return &RestoreRepository{db: db, database: database, dataDir: dataDir}
}

type backupFile struct {
	logicalName  string
	physicalName string
}

// Restore replaces the database with the contents of the backup at path.
func (r *RestoreRepository) Restore(ctx context.Context, path string) error {
	files, err := r.fileList(ctx, path)
	if err != nil {
		return err
	}

	data, ok := files["D"]
	if !ok {
		return fmt.Errorf("backup %s has no data file entry", path)
	}
	logFile, ok := files["L"]
	if !ok {
		return fmt.Errorf("backup %s has no log file entry", path)
	}

	log.Debug().Str("database", r.database).Str("backup", path).Msg("Executing RESTORE DATABASE")

	// RESTORE does not accept bound parameters; the path and names come from
	// the backup listing, not user input.
	stmt := fmt.Sprintf(
		`RESTORE DATABASE [%s] FROM DISK = N'%s' WITH REPLACE,
		MOVE '%s' TO '%s',
		MOVE '%s' TO '%s'`,
		r.database, path,
		data.logicalName, filepath.Join(r.dataDir, data.physicalName),
		logFile.logicalName, filepath.Join(r.dataDir, logFile.physicalName),
	)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("restore database %s: %w", r.database, err)
	}

	log.Info().Str("database", r.database).Str("backup", path).Msg("Database restored")
	return nil
}

// fileList reads the backup's file manifest and maps file type ("D" data,
// "L" log) to logical name and physical base name. Physical names in the
// backup are Windows paths; only the base name is kept.
func (r *RestoreRepository) fileList(ctx context.Context, path string) (map[string]backupFile, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("RESTORE FILELISTONLY FROM DISK = N'%s'", path))
	if err != nil {
		return nil, fmt.Errorf("restore filelistonly: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	files := make(map[string]backupFile)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		logical := asString(values[0])
		physical := asString(values[1])
		fileType := asString(values[2])

		parts := strings.Split(physical, `\`)
		files[fileType] = backupFile{
			logicalName:  logical,
			physicalName: parts[len(parts)-1],
		}
	}
	return files, rows.Err()
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return fmt.Sprintf("%v", v)
}

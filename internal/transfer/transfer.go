// Package transfer moves the task tables in and out of the database as a
// single JSON document.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/yukikurage/task-manager/internal/dto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 200

var ErrUnsupportedVersion = errors.New("unsupported dump version")

// tables that get an id sequence on postgres
var sequenceTables = []string{"positions", "users", "task_types", "tasks", "commentaries"}

// Snapshot reads every table into a Dump.
func Snapshot(ctx context.Context, db *gorm.DB) (*dto.Dump, error) {
	tx := db.WithContext(ctx)
	dump := &dto.Dump{Version: dto.DumpVersion, ExportedAt: time.Now().UTC()}

	var err error
	if dump.Positions, err = fetch(tx, "positions", "id", dto.ToPositionDTO); err != nil {
		return nil, err
	}
	if dump.Users, err = fetch(tx, "users", "id", dto.ToUserDTO); err != nil {
		return nil, err
	}
	if dump.Workers, err = fetch(tx, "workers", "user_id", dto.ToWorkerDTO); err != nil {
		return nil, err
	}
	if dump.TaskTypes, err = fetch(tx, "task types", "id", dto.ToTaskTypeDTO); err != nil {
		return nil, err
	}
	if dump.Tasks, err = fetch(tx, "tasks", "id", dto.ToTaskDTO); err != nil {
		return nil, err
	}
	if dump.TaskAssignments, err = fetch(tx, "task assignments", "task_id, worker_id", dto.ToTaskAssignmentDTO); err != nil {
		return nil, err
	}
	if dump.Commentaries, err = fetch(tx, "commentaries", "id", dto.ToCommentaryDTO); err != nil {
		return nil, err
	}
	return dump, nil
}

// Export writes an indented dump of the database to w.
func Export(ctx context.Context, db *gorm.DB, w io.Writer) (dto.Counts, error) {
	dump, err := Snapshot(ctx, db)
	if err != nil {
		return dto.Counts{}, err
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return dto.Counts{}, fmt.Errorf("failed to encode dump: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return dto.Counts{}, fmt.Errorf("failed to write dump: %w", err)
	}
	return dump.Counts(), nil
}

// Import reads a dump from r and restores it.
func Import(ctx context.Context, db *gorm.DB, r io.Reader) (dto.Counts, error) {
	var dump dto.Dump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return dto.Counts{}, fmt.Errorf("failed to decode dump: %w", err)
	}
	if err := Restore(ctx, db, &dump); err != nil {
		return dto.Counts{}, err
	}
	return dump.Counts(), nil
}

// Restore writes the rows of dump in dependency order inside one transaction.
// Rows whose primary key already exists are overwritten, so restoring the
// same dump twice leaves the database unchanged.
func Restore(ctx context.Context, db *gorm.DB, dump *dto.Dump) error {
	if dump.Version != dto.DumpVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, dump.Version)
	}

	overwrite := clause.OnConflict{UpdateAll: true}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, "positions", dump.Positions, dto.PositionDTO.Model, overwrite); err != nil {
			return err
		}
		if err := upsert(tx, "users", dump.Users, dto.UserDTO.Model, overwrite); err != nil {
			return err
		}
		if err := upsert(tx, "workers", dump.Workers, dto.WorkerDTO.Model, overwrite); err != nil {
			return err
		}
		if err := upsert(tx, "task types", dump.TaskTypes, dto.TaskTypeDTO.Model, overwrite); err != nil {
			return err
		}
		if err := upsert(tx, "tasks", dump.Tasks, dto.TaskDTO.Model, overwrite); err != nil {
			return err
		}
		// an assignment is nothing but its key
		if err := upsert(tx, "task assignments", dump.TaskAssignments, dto.TaskAssignmentDTO.Model, clause.OnConflict{DoNothing: true}); err != nil {
			return err
		}
		if err := upsert(tx, "commentaries", dump.Commentaries, dto.CommentaryDTO.Model, overwrite); err != nil {
			return err
		}
		return resetSequences(tx)
	})
}

func fetch[M, D any](tx *gorm.DB, table, order string, convert func(M) D) ([]D, error) {
	var rows []M
	if err := tx.Order(order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", table, err)
	}

	records := make([]D, len(rows))
	for i, row := range rows {
		records[i] = convert(row)
	}
	return records, nil
}

func upsert[D, M any](tx *gorm.DB, table string, records []D, convert func(D) M, conflict clause.OnConflict) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]M, len(records))
	for i, record := range records {
		rows[i] = convert(record)
	}
	if err := tx.Omit(clause.Associations).Clauses(conflict).CreateInBatches(&rows, batchSize).Error; err != nil {
		return fmt.Errorf("failed to import %s: %w", table, err)
	}
	return nil
}

// resetSequences moves the postgres id sequences past the imported ids.
// MySQL and SQLite track that on their own.
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range sequenceTables {
		sql := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s", table, table)
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", table, err)
		}
	}
	return nil
}

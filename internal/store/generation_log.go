package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"nomina/internal/model"
)

// DefaultHistoryLimit ListGenerations 未指定条数时的默认值
const DefaultHistoryLimit = 20

// RecordGeneration 写入一条生成记录，ID 为空时自动生成
func (s *Store) RecordGeneration(rec model.GenerationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO generations (id, created_at, output_path, format, week_label, employees, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CreatedAt.UTC(), rec.OutputPath, rec.Format, rec.WeekLabel, rec.Employees, rec.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// ListGenerations 按时间倒序返回最近的生成记录
func (s *Store) ListGenerations(limit int) ([]model.GenerationRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := s.db.Query(`
		SELECT id, created_at, output_path, format, week_label, employees, source_file
		FROM generations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	out := make([]model.GenerationRecord, 0)
	for rows.Next() {
		var rec model.GenerationRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.OutputPath, &rec.Format, &rec.WeekLabel, &rec.Employees, &rec.SourceFile); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generations: %w", err)
	}
	return out, nil
}

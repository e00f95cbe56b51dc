/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CTFAN project.
 *
 * CTFAN is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/antst/ctfan/internal/calcerr"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/solver"
)

//go:embed schema.sql
var schema string

const (
	SourceCLI     = "cli"
	SourceBatch   = "batch"
	SourceMQTT    = "mqtt"
	SourceAmbient = "ambient"

	defaultListLimit = 50
	memoryDB         = ":memory:"
)

// ErrNotFound is returned by GetRun for an unknown id.
var ErrNotFound = errors.New("run not found")

// Run is one recorded solve. Result is the JSON SolveResult, empty when the solve failed.
type Run struct {
	ID        string    `db:"id" json:"id"`
	CaseName  string    `db:"case_name" json:"case_name"`
	Source    string    `db:"source" json:"source"`
	Input     string    `db:"input" json:"input"`
	Result    string    `db:"result" json:"result,omitempty"`
	Airflow   float64   `db:"airflow" json:"airflow_kgps"`
	PowerKW   float64   `db:"power_kw" json:"power_kw"`
	ErrorKind string    `db:"error_kind" json:"error_kind,omitempty"`
	Error     string    `db:"error" json:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewRun records the outcome of one solve of input.
func NewRun(source, caseName string, input interface{}, res solver.SolveResult, solveErr error) (*Run, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal run input")
	}
	r := &Run{
		ID:       uuid.New().String(),
		CaseName: caseName,
		Source:   source,
		Input:    string(in),
	}
	if solveErr != nil {
		r.ErrorKind = calcerr.KindOf(solveErr).String()
		r.Error = solveErr.Error()
		return r, nil
	}

	out, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal run result")
	}
	r.Result = string(out)
	r.Airflow = res.AirflowKgps
	r.PowerKW = res.PowerKW
	return r, nil
}

// SolveResult decodes the stored result.
func (r *Run) SolveResult() (solver.SolveResult, error) {
	var res solver.SolveResult
	if r.Result == "" {
		return res, errors.Errorf("run %v has no result: %v", r.ID, r.Error)
	}
	err := json.Unmarshal([]byte(r.Result), &res)
	return res, errors.Wrapf(err, "failed to decode result of run %v", r.ID)
}

type Store struct {
	db *sqlx.DB
}

func Open(dbFile string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open DB `%v`", dbFile)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to open DB `%v`", dbFile)
	}

	if dbFile == memoryDB {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
	}

	// Create tables if they don't exist
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	logger.L().Debugf("Opened DB `%v`", dbFile)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO runs (id, case_name, source, input, result, airflow, power_kw, error_kind, error, created_at)
		VALUES (:id, :case_name, :source, :input, :result, :airflow, :power_kw, :error_kind, :error, :created_at)`, r)
	return errors.Wrapf(err, "failed to save run %v", r.ID)
}

func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	r := &Run{}
	err := s.db.GetContext(ctx, r, `SELECT * FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithMessagef(ErrNotFound, "id %v", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read run %v", id)
	}
	return r, nil
}

// ListRuns returns the newest runs first. A limit <= 0 uses the default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var runs []Run
	err := s.db.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	return runs, errors.Wrap(err, "failed to list runs")
}

func (s *Store) UpsertSensorValue(ctx context.Context, name string, value float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sensor_values (sensor_name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (sensor_name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, time.Now().UTC())
	return errors.Wrapf(err, "failed to store value of sensor %v", name)
}

func (s *Store) GetSensorValue(ctx context.Context, name string) (float64, error) {
	var v float64
	err := s.db.GetContext(ctx, &v, `SELECT value FROM sensor_values WHERE sensor_name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errors.WithMessagef(ErrNotFound, "sensor %v", name)
	}
	return v, errors.Wrapf(err, "failed to read value of sensor %v", name)
}

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

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/antst/ctfan/internal"
	"github.com/antst/ctfan/internal/batch"
	"github.com/antst/ctfan/internal/config"
	"github.com/antst/ctfan/internal/db"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/safe_mqtt"
	"github.com/antst/ctfan/internal/solver"
)

// Build version, overridden with flag during build.
var version = "devel"

func main() {
	defer logger.Close()
	logger.L().Infof("Cooling tower fan sizing, version: %+v", version)

	cfg, args, err := config.Get()
	if err != nil {
		logger.L().Fatal(err)
	}

	s, err := cfg.Solver.NewSolver()
	if err != nil {
		logger.L().Fatal(errors.WithMessage(err, "invalid solver configuration"))
	}

	store, err := db.Open(cfg.DBFile)
	if err != nil {
		logger.L().Fatal(err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case args.CaseFile != "":
		err = solveCase(ctx, s, store, args.CaseFile)
	case args.BatchFile != "":
		err = solveBatch(ctx, s, store, *cfg.Workers, args.BatchFile, args.OutFile)
	case args.Service:
		err = serve(ctx, cfg, s, store)
	default:
		err = errors.New("nothing to do: give a design case (-i), a batch (-b) or run the service (-s)")
	}

	if err != nil {
		logger.L().Error(err)
		store.Close()
		logger.Close()
		os.Exit(1)
	}
}

func solveCase(ctx context.Context, s *solver.Solver, store *db.Store, caseFile string) error {
	cc, err := config.LoadCase(caseFile)
	if err != nil {
		return err
	}
	dc, err := cc.ToSI()
	if err != nil {
		return err
	}

	res, solveErr := s.SolveForPower(dc.Thermal, dc.Geometry, dc.Fan)
	if run, err := db.NewRun(db.SourceCLI, dc.Name, cc, res, solveErr); err != nil {
		logger.L().Error(err)
	} else if err := store.SaveRun(ctx, run); err != nil {
		logger.L().Error(err)
	} else {
		logger.L().Infof("Recorded run %v", run.ID)
	}
	if solveErr != nil {
		return errors.WithMessagef(solveErr, "case `%v`", caseFile)
	}
	return internal.WriteReport(os.Stdout, dc.Name, dc.System, res)
}

func solveBatch(ctx context.Context, s *solver.Solver, store *db.Store, workers int, batchFile, outFile string) error {
	in, err := os.Open(batchFile)
	if err != nil {
		return errors.Wrap(err, "failed to open batch")
	}
	defer in.Close()

	cases, err := batch.ReadCases(in)
	if err != nil {
		return err
	}
	logger.L().Infof("Solving %d cases from `%v` with %d workers", len(cases), batchFile, workers)

	results, err := batch.Run(ctx, s, cases, workers,
		func(ctx context.Context, c batch.CaseRow, res solver.SolveResult, solveErr error) error {
			run, err := db.NewRun(db.SourceBatch, c.Name, c, res, solveErr)
			if err != nil {
				return err
			}
			return store.SaveRun(ctx, run)
		})
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return errors.Wrap(err, "failed to create results file")
		}
		defer f.Close()
		out = f
	}
	if err := batch.WriteResults(out, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.ErrorKind != "" {
			failed++
		}
	}
	logger.L().Infof("Batch done: %d solved, %d failed", len(results)-failed, failed)
	return nil
}

func serve(ctx context.Context, cfg *config.Config, s *solver.Solver, store *db.Store) error {
	var reference *config.DesignCase
	if cfg.Ambient.Enabled() {
		cc, err := config.LoadCase(cfg.Ambient.Case)
		if err != nil {
			return errors.WithMessage(err, "ambient reference case")
		}
		dc, err := cc.ToSI()
		if err != nil {
			return errors.WithMessage(err, "ambient reference case")
		}
		reference = &dc
	}

	client := safe_mqtt.InitMQTTClient(cfg.MQTTConfig, internal.ClientIDPrefix+uuid.New().String())
	defer client.SafeDisconnect()

	c := internal.NewSizingController(cfg, s, store, client, reference)
	logger.L().Infof("Serving solve requests on `%v/solve`", cfg.MQTTConfig.ControlTopic)
	c.Run(ctx)
	logger.L().Info("Shutting down")
	return nil
}

// Package iapp runs one scoring pass over the TEE input and output directories.
package iapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/propshield/credit-iapp/internal/config"
	"github.com/propshield/credit-iapp/internal/rentroll"
	"github.com/propshield/credit-iapp/internal/scorer"
)

// Runner reads the rent roll, scores it and writes the result document.
type Runner struct {
	fs     afero.Fs
	io     config.IOConfig
	out    config.OutputConfig
	stdout io.Writer
}

// NewRunner creates a Runner. A nil stdout discards the JSON echo.
func NewRunner(fs afero.Fs, cfg *config.Config, stdout io.Writer) *Runner {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Runner{
		fs:     fs,
		io:     cfg.IO,
		out:    cfg.Output,
		stdout: stdout,
	}
}

// Run performs the whole computation. Nothing is written to the result path
// unless every row parses and the result passes validation.
func (r *Runner) Run(ctx context.Context) Outcome {
	log := zap.L().With(zap.String("run_id", uuid.NewString()))
	inPath := r.io.InputPath()
	outPath := r.io.OutputPath()

	log.Info("iapp: processing rent roll", zap.String("input", inPath))

	outcome := r.run(ctx, log, inPath, outPath)
	if outcome.OK() {
		r.writeManifest(log, Manifest{DeterministicOutputPath: outPath})
		return outcome
	}

	log.Error("iapp: run failed",
		zap.Stringer("kind", outcome.Kind),
		zap.Error(outcome.Err),
	)
	r.writeManifest(log, Manifest{
		DeterministicOutputPath: r.io.OutputDir,
		ErrorMessage:            outcome.Err.Error(),
	})
	return outcome
}

func (r *Runner) run(ctx context.Context, log *zap.Logger, inPath, outPath string) Outcome {
	if err := ctx.Err(); err != nil {
		return failure(eris.Wrap(err, "iapp: context cancelled"))
	}

	records, err := rentroll.ReadFile(r.fs, inPath)
	if err != nil {
		return failure(eris.Wrap(err, "iapp: read rent roll"))
	}
	log.Debug("iapp: rent roll parsed", zap.Int("rows", len(records)))

	result, err := scorer.Compute(records)
	if err != nil {
		return failure(eris.Wrap(err, "iapp: compute score"))
	}

	doc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return failure(eris.Wrap(err, "iapp: encode result"))
	}
	if err := ValidateResult(doc, result); err != nil {
		return failure(err)
	}

	if err := ctx.Err(); err != nil {
		return failure(eris.Wrap(err, "iapp: context cancelled"))
	}
	if err := writeFileAtomic(r.fs, outPath, doc); err != nil {
		return failure(eris.Wrap(err, "iapp: write result"))
	}

	log.Info("iapp: computation complete",
		zap.String("output", outPath),
		zap.Int("tenant_count", result.TenantCount),
		zap.Int("late_payments", result.LatePayments),
		zap.Int("credit_score", result.CreditScore),
		zap.String("risk_rating", string(result.RiskRating)),
	)

	if _, err := fmt.Fprintln(r.stdout, string(doc)); err != nil {
		log.Warn("iapp: echo result to stdout", zap.Error(err))
	}

	return success(result, outPath)
}

func (r *Runner) writeManifest(log *zap.Logger, m Manifest) {
	if !r.out.ComputedManifest {
		return
	}
	path := r.io.ManifestPath()
	if err := writeManifest(r.fs, path, m); err != nil {
		log.Warn("iapp: manifest not written", zap.String("path", path), zap.Error(err))
	}
}

// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datatable

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AutoFitJob is a background width measurement started by StartAutoFit.
// Its widths are written only if it completes without being cancelled.
type AutoFitJob struct {
	model   *TableModel
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	err     error
	columns []string
}

func (j *AutoFitJob) finish(err error) {
	j.once.Do(func() {
		j.err = err
		close(j.done)
	})
}

// Columns returns the ids of the columns being measured.
func (j *AutoFitJob) Columns() []string { return j.columns }

// Done is closed once the job has committed, failed or been cancelled.
func (j *AutoFitJob) Done() <-chan struct{} { return j.done }

// Err returns nil until Done is closed, then the reason the job ended
// without committing, if any.
func (j *AutoFitJob) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// Wait blocks until the job ends or ctx is done.
func (j *AutoFitJob) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the job. The model accepts other gestures again as soon as
// Cancel returns, and nothing the job measured is written.
func (j *AutoFitJob) Cancel() {
	j.cancel()
	m := j.model
	m.mu.Lock()
	if m.pending == j {
		m.pending = nil
	}
	m.mu.Unlock()
	j.finish(context.Canceled)
}

// cancelPendingLocked abandons the running job, if any.
func (m *TableModel) cancelPendingLocked() {
	if m.pending == nil {
		return
	}
	job := m.pending
	m.pending = nil
	job.cancel()
	job.finish(context.Canceled)
	m.logger.Debug("auto-fit cancelled", zap.Strings("columns", job.columns))
}

// AutoFitInFlight reports whether a background auto-fit is running.
func (m *TableModel) AutoFitInFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// CancelAutoFit abandons the running background auto-fit, if any.
func (m *TableModel) CancelAutoFit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
}

// AutoFit measures and resizes targets synchronously. With no targets every
// resizable column without a manual width is fitted.
func (m *TableModel) AutoFit(targets ...string) error {
	return m.update("auto-fit", func(s ViewState) (ViewState, error) {
		return AutoFitContext(context.Background(), s, m.reg, m.estimator, m.ds, targets...)
	}, autoFitEnabled, idle)
}

// StartAutoFit measures targets on a separate goroutine and commits the
// widths through the dispatcher. Until the job ends, gestures that change
// widths or column order fail with ErrOperationInProgress.
func (m *TableModel) StartAutoFit(ctx context.Context, targets ...string) (*AutoFitJob, error) {
	m.mu.Lock()
	for _, g := range []gate{autoFitEnabled, idle} {
		if err := g(m); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}
	cols, err := AutoFitTargets(m.state, m.reg, targets)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	job := &AutoFitJob{model: m, cancel: cancel, done: make(chan struct{})}
	for _, col := range cols {
		job.columns = append(job.columns, col.ID)
	}
	if len(cols) == 0 {
		m.mu.Unlock()
		cancel()
		job.finish(nil)
		return job, nil
	}
	m.pending = job
	state, ds, est, stages := m.state, m.ds, m.estimator, m.stages
	m.mu.Unlock()

	m.logger.Debug("auto-fit started", zap.Strings("columns", job.columns))
	go func() {
		start := time.Now()
		widths, err := MeasureColumns(ctx, state, est, ds, cols, stages)
		if err == nil {
			err = ctx.Err()
		}
		m.logger.Debug("auto-fit measured",
			zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		m.dispatch(func() { m.finishAutoFit(job, widths, err) })
	}()
	return job, nil
}

func (m *TableModel) finishAutoFit(job *AutoFitJob, widths map[string]float32, err error) {
	m.mu.Lock()
	if m.pending != job {
		m.mu.Unlock()
		job.finish(context.Canceled)
		return
	}
	m.pending = nil
	if err != nil {
		m.mu.Unlock()
		job.cancel()
		job.finish(err)
		return
	}
	notes := m.commitLocked(ApplyAutoFit(m.state, m.reg, widths))
	m.mu.Unlock()
	job.cancel()
	m.emit(notes)
	job.finish(nil)
}

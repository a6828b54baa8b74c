// Package reducejob runs a named reducer over a sorted row stream.
package reducejob

import (
	"context"

	"golang.org/x/xerrors"

	"go.cubebuild.tech/sortmerge/merge"
	"go.cubebuild.tech/sortmerge/reducers"
	"go.cubebuild.tech/sortmerge/rows"
	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/log/nop"
	"go.ytsaurus.tech/library/go/core/metrics"
	nopmetrics "go.ytsaurus.tech/library/go/core/metrics/nop"
)

// Writer is output of the job.
type Writer interface {
	Write(p merge.Pair[any, any]) error
}

// Job groups sorted rows by key and folds every group with Reducer.
type Job struct {
	Reducer reducers.Reducer

	// Logger defaults to nop logger.
	Logger log.Logger
	// Metrics defaults to nop registry.
	Metrics metrics.Registry
}

type jobMetrics struct {
	rowsRead      metrics.Counter
	groupsWritten metrics.Counter
	reduceErrors  metrics.Counter
}

func newJobMetrics(r metrics.Registry) *jobMetrics {
	return &jobMetrics{
		rowsRead:      r.Counter("rows_read"),
		groupsWritten: r.Counter("groups_written"),
		reduceErrors:  r.Counter("reduce_errors"),
	}
}

// Stats describes finished job.
type Stats struct {
	RowsRead      int64
	GroupsWritten int64
}

func (j *Job) logger() log.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return &nop.Logger{}
}

func (j *Job) registry() metrics.Registry {
	if j.Metrics != nil {
		return j.Metrics
	}
	return &nopmetrics.Registry{}
}

// Do reads in, groups rows with equal keys and writes one row per group into out.
//
// Do stops at the first error. Context is checked between groups.
func (j *Job) Do(ctx context.Context, in merge.Iterator[any, any], out Writer) (stats Stats, err error) {
	if j.Reducer == nil {
		return stats, xerrors.New("reducejob: reducer is not set")
	}

	l := j.logger()
	m := newJobMetrics(j.registry())

	counted := merge.Counting(in)
	groups := merge.Merge[any, any, any](counted, rows.CompareKeys, reducers.Func(j.Reducer))

	pulled := 0
	flushRows := func() {
		n := counted.Pulled()
		m.rowsRead.Add(int64(n - pulled))
		stats.RowsRead += int64(n - pulled)
		pulled = n
	}
	defer flushRows()

	for groups.HasNext() {
		if err = ctx.Err(); err != nil {
			return
		}

		var p merge.Pair[any, any]
		p, err = groups.Next()
		if err != nil {
			var reduceErr *merge.ReduceError
			if xerrors.As(err, &reduceErr) {
				m.reduceErrors.Inc()
				l.Error("Reducer failed",
					log.Any("key", reduceErr.Key),
					log.Int("group_size", reduceErr.Size),
					log.Error(reduceErr.Err))
			}
			return
		}
		flushRows()

		if err = out.Write(p); err != nil {
			err = xerrors.Errorf("reducejob: write group: %w", err)
			return
		}

		m.groupsWritten.Inc()
		stats.GroupsWritten++
	}

	l.Debug("Reduce finished",
		log.Int64("rows_read", stats.RowsRead+int64(counted.Pulled()-pulled)),
		log.Int64("groups_written", stats.GroupsWritten))
	return
}

package inference

import (
	"context"
	"sync"
)

// ChangeKind names what kind of write triggered a processChange call.
type ChangeKind string

const (
	ChangeNode ChangeKind = "node"
	ChangeEdge ChangeKind = "edge"
)

// Change describes one store write the engine should react to.
type Change struct {
	Kind     ChangeKind
	NodeID   int64
	EdgeType string
}

// Subscriber is notified of changes in the order they were observed.
type Subscriber func(Change)

// ProcessChange invalidates any cached inference result for the changed
// edge type (the generation counter already did this implicitly; the
// explicit Invalidate call also drops entries whose TTL hasn't expired yet
// but whose generation check would otherwise only fire on next read) and
// fans the change out to subscribers in submission order.
func (e *Engine) ProcessChange(ctx context.Context, c Change, subscribers ...Subscriber) {
	if c.EdgeType != "" {
		e.cache.Invalidate(c.EdgeType)
	}
	for _, sub := range subscribers {
		sub(c)
	}
}

// Job is one inference query to run as part of a batch.
type Job struct {
	Kind     string // "transitive" | "hierarchical" | "specialization"
	Start    int64
	EdgeType string
	MaxDepth int
	Hierarchical HierarchicalOptions
}

// JobResult pairs a Job with its outcome. Err is set, not returned, so one
// job's failure never aborts its siblings.
type JobResult struct {
	Job    Job
	Result Result
	Err    error
}

// RunBatch executes jobs with bounded parallelism parallelism, preserving
// per-edge-type ordering: jobs sharing an EdgeType are routed to the same
// internal shard and run in submission order relative to each other, while
// jobs on different edge types run concurrently. A failing job fills its
// own result slot and does not cancel the rest of the batch.
func (e *Engine) RunBatch(ctx context.Context, jobs []Job, parallelism int) []JobResult {
	if parallelism <= 0 {
		parallelism = 1
	}

	shards := map[string][]int{}
	for i, j := range jobs {
		shards[j.EdgeType] = append(shards[j.EdgeType], i)
	}

	results := make([]JobResult, len(jobs))
	shardKeys := make([]string, 0, len(shards))
	for k := range shards {
		shardKeys = append(shardKeys, k)
	}

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for _, key := range shardKeys {
		indices := shards[key]
		wg.Add(1)
		go func(indices []int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			for _, idx := range indices {
				select {
				case <-ctx.Done():
					results[idx] = JobResult{Job: jobs[idx], Err: ctx.Err()}
					continue
				default:
				}
				results[idx] = e.runJob(ctx, jobs[idx])
			}
		}(indices)
	}

	wg.Wait()
	return results
}

func (e *Engine) runJob(ctx context.Context, j Job) JobResult {
	switch j.Kind {
	case "transitive":
		r, err := e.QueryTransitive(ctx, j.Start, j.EdgeType, j.MaxDepth)
		return JobResult{Job: j, Result: r, Err: err}
	case "hierarchical":
		r, err := e.QueryHierarchical(ctx, j.Start, j.EdgeType, j.Hierarchical)
		return JobResult{Job: j, Result: r, Err: err}
	case "specialization":
		edges, err := e.SpecializationEdges(ctx, j.EdgeType)
		return JobResult{Job: j, Result: Result{Edges: edges}, Err: err}
	default:
		return JobResult{Job: j, Err: errUnknownJobKind(j.Kind)}
	}
}

func errUnknownJobKind(kind string) error {
	return &unknownJobKindError{kind}
}

type unknownJobKindError struct{ kind string }

func (e *unknownJobKindError) Error() string { return "inference: unknown job kind " + e.kind }

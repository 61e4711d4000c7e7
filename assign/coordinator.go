package assign

import (
	"io"
	"log/slog"
	"sync"

	"github.com/brightgrove-schools/classrooms/friendgraph"
	"github.com/brightgrove-schools/classrooms/student"
	"github.com/brightgrove-schools/classrooms/validate"
)

// Coordinator runs the spec.md §4.6 state machine: validate, build the
// graph, dispatch to the chosen strategy, evaluate the result, and — on a
// cp_sat failure with fallback enabled — retry once with greedy before
// giving up. It is the only place that knows how to fall back; neither
// strategy knows about the other.
//
// slog is used only at this boundary (strategy selection, fallback,
// solver-status events), never inside a strategy's search loop, mirroring
// how the teacher library keeps its bb/approx engines free of logging and
// leaves observability to the caller.
type Coordinator struct {
	logger *slog.Logger

	mu   sync.Mutex
	last *lastRun
}

type lastRun struct {
	classes  Assignment
	metadata Metadata
}

// NewCoordinator returns a Coordinator that logs to logger. A nil logger
// installs a discarding handler so the zero value is always safe to log
// through.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{logger: logger}
}

// Run executes one assignment end to end (spec.md §4.6). On success it
// returns the materialized Assignment (in the strategy's own internal
// order — the facade re-sorts into input-table order) and a Metadata with
// Evaluation populated.
func (co *Coordinator) Run(table student.Table, numClasses int, opts Options) (Assignment, Metadata, error) {
	if err := validate.Students(table); err != nil {
		return nil, Metadata{}, err
	}
	if err := validate.Parameters(len(table), numClasses); err != nil {
		return nil, Metadata{}, err
	}

	graph, forbidden := friendgraph.Build(table)
	input := strategyInput{graph: graph, forbidden: forbidden, numClasses: numClasses, opts: opts}

	strat := strategyFor(opts.Strategy)
	co.logger.Info("running assignment strategy", "strategy", strat.name(), "numStudents", len(table), "numClasses", numClasses)

	classes, md, err := strat.assign(input)
	if err == nil {
		co.logger.Info("assignment strategy completed", "strategy", strat.name(), "solverStatus", md.SolverStatus)
		md.Evaluation = Evaluate(graph, forbidden, classes)
		co.record(classes, md)
		return classes, md, nil
	}

	if !opts.FallbackEnabled || strat.name() == Greedy.String() {
		co.logger.Error("assignment strategy failed, no fallback", "strategy", strat.name(), "solverStatus", md.SolverStatus, "error", err)
		return nil, Metadata{}, err
	}

	co.logger.Warn("strategy failed, falling back to greedy", "strategy", strat.name(), "solverStatus", md.SolverStatus, "error", err)
	fbClasses, fbMD, fbErr := greedyStrategy{}.assign(input)
	if fbErr != nil {
		// Greedy never returns an error on a validated input; a failure here
		// means something is structurally wrong with the input itself, not
		// something the coordinator can paper over by retrying again.
		return nil, Metadata{}, fbErr
	}

	fbMD.FallbackUsed = true
	fbMD.OriginalStrategy = strat.name()
	fbMD.FallbackReason = err.Error()
	fbMD.Evaluation = Evaluate(graph, forbidden, fbClasses)

	co.logger.Info("fallback strategy completed", "originalStrategy", strat.name(), "overallScore", fbMD.Evaluation.OverallScore)
	co.record(fbClasses, fbMD)
	return fbClasses, fbMD, nil
}

func strategyFor(kind StrategyKind) strategy {
	if kind == CPSAT {
		return cpSatStrategy{}
	}
	return greedyStrategy{}
}

func (co *Coordinator) record(classes Assignment, md Metadata) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.last = &lastRun{classes: classes.Clone(), metadata: md}
}

// LastAssignmentInfo returns the most recently completed run's Assignment
// and Metadata, or ErrNoLastAssignment if Run has never succeeded.
func (co *Coordinator) LastAssignmentInfo() (Assignment, Metadata, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.last == nil {
		return nil, Metadata{}, ErrNoLastAssignment
	}
	return co.last.classes.Clone(), co.last.metadata, nil
}

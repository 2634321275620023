package robot

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/echoman/robots-in-go/pkg/model"
)

// Recorder persists the outcome of a run.
type Recorder interface {
	Record(ctx context.Context, run *model.Run) error
}

// Dispatcher triggers the enrolled robots on their cron schedules.
type Dispatcher struct {
	registry *Registry
	recorder Recorder
	logger   *log.Logger
	cron     *cron.Cron
	now      func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRecorder records every run.
func WithRecorder(r Recorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithLogger replaces the standard logger.
func WithLogger(l *log.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a dispatcher over the robots of registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   log.New(os.Stderr, "", log.LstdFlags),
		now:      time.Now,
	}
	for _, apply := range opts {
		apply(d)
	}

	cronLogger := cron.PrintfLogger(d.logger)
	d.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	return d
}

// Schedule installs the sign and process triggers. Both expressions have a
// leading seconds field.
func (d *Dispatcher) Schedule(ctx context.Context, sign, process string) error {
	if _, err := d.cron.AddFunc(sign, func() { d.Sign(ctx) }); err != nil {
		return fmt.Errorf("sign schedule %q: %w", sign, err)
	}
	if _, err := d.cron.AddFunc(process, func() { d.Process(ctx) }); err != nil {
		return fmt.Errorf("process schedule %q: %w", process, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (d *Dispatcher) Start() {
	d.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running
// jobs have completed.
func (d *Dispatcher) Stop() context.Context {
	return d.cron.Stop()
}

// Next returns the next activation time of every trigger, soonest first.
// It is empty until the dispatcher is started.
func (d *Dispatcher) Next() []time.Time {
	entries := d.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if !e.Next.IsZero() {
			next = append(next, e.Next)
		}
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Before(next[j]) })
	return next
}

// Sign runs the sign action of every enrolled robot, one after another.
func (d *Dispatcher) Sign(ctx context.Context) []*model.Run {
	d.logger.Printf("------ Start sign at %s", d.now().Format(time.RFC3339))
	runs := d.runAll(ctx, model.ActionSign)
	d.logger.Printf("------ End sign at %s", d.now().Format(time.RFC3339))
	return runs
}

// Process runs the process action of every enrolled robot, one after another.
func (d *Dispatcher) Process(ctx context.Context) []*model.Run {
	d.logger.Printf("++++++ Start wander at %s; %d robots", d.now().Format(time.RFC3339), d.registry.Len())
	runs := d.runAll(ctx, model.ActionProcess)
	d.logger.Printf("++++++ End wander at %s", d.now().Format(time.RFC3339))
	return runs
}

func (d *Dispatcher) runAll(ctx context.Context, action string) []*model.Run {
	entries := d.registry.Entries()
	runs := make([]*model.Run, 0, len(entries))
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		runs = append(runs, d.run(ctx, e, action))
	}
	return runs
}

// RunOne runs action on the robot enrolled for owner at vendor.
func (d *Dispatcher) RunOne(ctx context.Context, vendor, owner, action string) (*model.Run, error) {
	if action != model.ActionSign && action != model.ActionProcess {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	r, ok := d.registry.Get(vendor, owner)
	if !ok {
		return nil, fmt.Errorf("robot %s not enrolled", model.RobotKey(vendor, owner))
	}
	return d.run(ctx, Entry{Vendor: vendor, Owner: owner, Robot: r}, action), nil
}

func (d *Dispatcher) run(ctx context.Context, e Entry, action string) *model.Run {
	run := &model.Run{
		Vendor:    e.Vendor,
		Account:   e.Owner,
		Action:    action,
		StartedAt: d.now(),
	}

	err := d.invoke(ctx, e.Robot, action)
	run.FinishedAt = d.now()
	run.Success = err == nil
	if err != nil {
		run.Message = err.Error()
		d.logger.Printf("robot %s %s failed: %v", e.Key(), action, err)
	}

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, run); err != nil {
			d.logger.Printf("robot %s %s: record run: %v", e.Key(), action, err)
		}
	}
	return run
}

// invoke shields the loop from a panicking robot.
func (d *Dispatcher) invoke(ctx context.Context, r Robot, action string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return Do(ctx, r, action)
}

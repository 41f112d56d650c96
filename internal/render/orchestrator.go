// Package render drives the external Manim engine: it writes compiled
// scripts to per-request temp directories, invokes the engine as a child
// process with a bounded timeout, and collects the produced artifact or
// the engine's verbatim diagnostics.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tailwiinder/easymanim/internal/config"
	"github.com/tailwiinder/easymanim/internal/scene"
	"github.com/tailwiinder/easymanim/internal/script"
)

const scriptFileName = "scene.py"

// Options configure an Orchestrator.
type Options struct {
	// Binary is the renderer executable, e.g. "manim".
	Binary string
	// PreviewQuality and VideoQuality are the engine quality flags per
	// render kind, e.g. "-ql" / "-qh".
	PreviewQuality string
	VideoQuality   string
	// OutputDir receives finished artifacts, one uniquely named file per
	// request.
	OutputDir string
	// Timeout bounds a single engine invocation.
	Timeout time.Duration
	// KeepWorkdirs disables temp-dir cleanup for debugging.
	KeepWorkdirs bool
	Logger       *slog.Logger
}

// OptionsFromConfig maps engine configuration onto orchestrator options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Binary:         cfg.Binary,
		PreviewQuality: cfg.PreviewQuality,
		VideoQuality:   cfg.VideoQuality,
		OutputDir:      cfg.OutputDir,
		Timeout:        cfg.Timeout(),
		KeepWorkdirs:   cfg.KeepWorkdirs,
	}
}

// Orchestrator runs renders. Each kind has a single-flight slot: starting
// a render while one of the same kind is in flight returns BusyError
// (there is no queueing). Preview and video renders may run concurrently;
// they never share a temp path because every request gets a fresh one.
type Orchestrator struct {
	opts Options
	log  *slog.Logger

	slots map[Kind]*semaphore.Weighted

	mu       sync.Mutex
	requests map[string]*Request
}

// NewOrchestrator returns an orchestrator with the given options.
func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		opts: opts,
		log:  log,
		slots: map[Kind]*semaphore.Weighted{
			KindPreview: semaphore.NewWeighted(1),
			KindVideo:   semaphore.NewWeighted(1),
		},
		requests: make(map[string]*Request),
	}
}

// Start begins a render of the snapshot and returns its request handle.
// The slot is acquired synchronously, so BusyError is reported here, not
// asynchronously. The request runs in the background; cancel ctx to
// terminate the engine process, which fails the request with a cancelled
// reason.
func (o *Orchestrator) Start(ctx context.Context, kind Kind, snap scene.Model) (*Request, error) {
	slot, ok := o.slots[kind]
	if !ok {
		return nil, fmt.Errorf("unknown render kind: %q", kind)
	}
	if !slot.TryAcquire(1) {
		return nil, &BusyError{Kind: kind}
	}

	req := newRequest(kind)
	o.mu.Lock()
	o.requests[req.ID] = req
	o.mu.Unlock()

	go func() {
		artifact, ferr := o.run(ctx, req, snap)
		// Release before the request turns terminal, so an observer of
		// Done can start the next render without hitting BusyError.
		slot.Release(1)
		if ferr != nil {
			req.fail(ferr)
			o.log.Error("render failed",
				"request", req.ID, "kind", req.Kind, "phase", string(ferr.Phase),
				"reason", ferr.Reason(), "exit_code", ferr.ExitCode, "err", ferr.Err)
			return
		}
		req.succeed(artifact)
		o.log.Info("engine finished", "request", req.ID, "kind", req.Kind, "artifact", artifact.Path)
	}()
	return req, nil
}

// Render runs a render synchronously: Start plus waiting for the terminal
// result.
func (o *Orchestrator) Render(ctx context.Context, kind Kind, snap scene.Model) (Artifact, error) {
	req, err := o.Start(ctx, kind, snap)
	if err != nil {
		return Artifact{}, err
	}
	<-req.Done()
	return req.Result()
}

// Status returns the state of a known request.
func (o *Orchestrator) Status(id string) (State, bool) {
	o.mu.Lock()
	req, ok := o.requests[id]
	o.mu.Unlock()
	if !ok {
		return StateIdle, false
	}
	return req.State(), true
}

func (o *Orchestrator) run(ctx context.Context, req *Request, snap scene.Model) (Artifact, *FailedError) {
	req.setState(StateCompiling)
	scr, err := script.Compile(snap, req.Kind.Mode())
	if err != nil {
		return Artifact{}, &FailedError{Phase: PhaseCompile, ExitCode: -1, Err: err}
	}

	workdir, err := os.MkdirTemp("", "easymanim_"+string(req.Kind)+"_")
	if err != nil {
		return Artifact{}, &FailedError{Phase: PhaseWriteScript, ExitCode: -1, Err: err}
	}
	// Removed only after the engine process has fully exited; the child
	// never reads a deleted script.
	if !o.opts.KeepWorkdirs {
		defer os.RemoveAll(workdir)
	}

	scriptPath := filepath.Join(workdir, scriptFileName)
	if err := os.WriteFile(scriptPath, []byte(scr.Text), 0o644); err != nil {
		return Artifact{}, &FailedError{Phase: PhaseWriteScript, ExitCode: -1, Err: err}
	}
	req.setState(StateScriptWritten)

	mediaDir := filepath.Join(workdir, "media")
	args := o.engineArgs(req.Kind, scr.SceneName, mediaDir)

	runCtx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, o.opts.Binary, args...)
	cmd.Dir = workdir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	req.setState(StateEngineRunning)
	o.log.Info("engine starting",
		"request", req.ID, "kind", req.Kind, "binary", o.opts.Binary, "scene", scr.SceneName)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitCode = ee.ExitCode()
		}
		// A killed process reports an exec error; the context error is the
		// real cause when the caller cancelled or the timeout fired.
		if ctxErr := runCtx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return Artifact{}, &FailedError{Phase: PhaseEngine, ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}

	outPath, err := o.collect(req, scr.SceneName, mediaDir)
	if err != nil {
		return Artifact{}, &FailedError{Phase: PhaseCollect, ExitCode: 0, Stderr: stderr.String(), Err: err}
	}

	return Artifact{
		Kind:             req.Kind,
		Path:             outPath,
		SourceScriptHash: scr.Hash,
		CreatedAt:        time.Now(),
	}, nil
}

// engineArgs builds the bounded argument list for one invocation.
// Preview renders ask for the last frame only (-s) as a PNG.
func (o *Orchestrator) engineArgs(kind Kind, sceneName, mediaDir string) []string {
	args := []string{"render"}
	if kind == KindPreview {
		args = append(args, o.opts.PreviewQuality, "-s", "--format", "png")
	} else {
		args = append(args, o.opts.VideoQuality, "--format", "mp4")
	}
	args = append(args, "--media_dir", mediaDir, scriptFileName, sceneName)
	return args
}

// collect locates the engine's output under the request's media dir and
// moves it to a request-unique path in the output directory.
func (o *Orchestrator) collect(req *Request, sceneName, mediaDir string) (string, error) {
	var pattern string
	if req.Kind == KindPreview {
		// Manim convention: media/images/<script stem>/<SceneName>*.png
		pattern = filepath.Join(mediaDir, "images", "scene", sceneName+"*.png")
	} else {
		// media/videos/<script stem>/<quality dir>/<SceneName>.mp4
		pattern = filepath.Join(mediaDir, "videos", "scene", "*", sceneName+".mp4")
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("engine exited 0 but no output matched %s", pattern)
	}
	if len(matches) > 1 {
		o.log.Warn("multiple engine outputs, using first", "request", req.ID, "matches", len(matches))
	}

	if err := os.MkdirAll(o.opts.OutputDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(o.opts.OutputDir, req.ID+req.Kind.ext())
	if err := moveFile(matches[0], dest); err != nil {
		return "", err
	}
	return dest, nil
}

// moveFile renames, falling back to copy+remove across filesystems
// (temp dirs often live on a different mount than the output dir).
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, b, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}

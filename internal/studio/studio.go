// Package studio is the seam the UI layer calls into. It translates
// commands onto the scene store and render orchestrator and publishes
// state-changed and render notifications. No business logic lives here.
package studio

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tailwiinder/easymanim/internal/events"
	"github.com/tailwiinder/easymanim/internal/render"
	"github.com/tailwiinder/easymanim/internal/scene"
	"github.com/tailwiinder/easymanim/internal/schema"
)

// Studio owns the single scene of a session plus the orchestrator that
// renders it.
type Studio struct {
	log   *slog.Logger
	store *scene.Store
	orch  *render.Orchestrator
	bus   *events.Broadcaster
}

// New assembles a studio around an empty scene.
func New(orch *render.Orchestrator, logger *slog.Logger) *Studio {
	if logger == nil {
		logger = slog.Default()
	}
	return &Studio{
		log:   logger,
		store: scene.NewStore(),
		orch:  orch,
		bus:   events.NewBroadcaster(64),
	}
}

// Store exposes the underlying scene store, e.g. for loading a project
// document at startup.
func (s *Studio) Store() *scene.Store { return s.store }

// Subscribe attaches an event subscriber.
func (s *Studio) Subscribe() events.Subscriber { return s.bus.Subscribe() }

// Unsubscribe detaches an event subscriber.
func (s *Studio) Unsubscribe(sub events.Subscriber) { s.bus.Unsubscribe(sub) }

// Recent returns up to n recent events, oldest first.
func (s *Studio) Recent(n int) []events.Event { return s.bus.Recent(n) }

// AddObject creates an object of the given type and returns its id.
func (s *Studio) AddObject(t schema.ObjectType) (string, error) {
	id, err := s.store.CreateObject(t)
	if err != nil {
		s.log.Warn("add object rejected", "type", t, "err", err)
		return "", err
	}
	s.log.Info("object added", "type", t, "id", id)
	s.sceneChanged()
	return id, nil
}

// SetProperty updates one property of one object.
func (s *Studio) SetProperty(id, name string, value any) error {
	if err := s.store.UpdateProperty(id, name, value); err != nil {
		s.log.Warn("property update rejected", "id", id, "property", name, "err", err)
		return err
	}
	s.log.Info("property updated", "id", id, "property", name)
	s.sceneChanged()
	return nil
}

// SetAnimation assigns an object's entry animation.
func (s *Studio) SetAnimation(id string, anim schema.Animation) error {
	if err := s.store.SetAnimation(id, anim); err != nil {
		s.log.Warn("animation rejected", "id", id, "animation", anim, "err", err)
		return err
	}
	s.log.Info("animation set", "id", id, "animation", anim)
	s.sceneChanged()
	return nil
}

// RemoveObject deletes an object from the scene.
func (s *Studio) RemoveObject(id string) error {
	if err := s.store.RemoveObject(id); err != nil {
		s.log.Warn("remove rejected", "id", id, "err", err)
		return err
	}
	s.log.Info("object removed", "id", id)
	s.sceneChanged()
	return nil
}

// Reorder moves an object within the z-order.
func (s *Studio) Reorder(id string, newIndex int) error {
	if err := s.store.Reorder(id, newIndex); err != nil {
		s.log.Warn("reorder rejected", "id", id, "index", newIndex, "err", err)
		return err
	}
	s.sceneChanged()
	return nil
}

// Object returns a copy of one object.
func (s *Studio) Object(id string) (scene.Object, error) {
	return s.store.Object(id)
}

// Snapshot returns an independent copy of the whole scene.
func (s *Studio) Snapshot() scene.Model {
	return s.store.Snapshot()
}

// RequestPreview starts a preview render of the scene as it is right now
// and returns the request id. The snapshot is taken synchronously, so
// edits made after this call never affect the render. Completion arrives
// as a render.succeeded or render.failed event carrying the request id.
func (s *Studio) RequestPreview(ctx context.Context) (string, error) {
	return s.request(ctx, render.KindPreview)
}

// RequestRender starts a full video render; semantics match
// RequestPreview.
func (s *Studio) RequestRender(ctx context.Context) (string, error) {
	return s.request(ctx, render.KindVideo)
}

// RenderStatus reports the lifecycle state of a render request.
func (s *Studio) RenderStatus(id string) (render.State, bool) {
	return s.orch.Status(id)
}

func (s *Studio) request(ctx context.Context, kind render.Kind) (string, error) {
	snap := s.store.Snapshot()

	req, err := s.orch.Start(ctx, kind, snap)
	if err != nil {
		var busy *render.BusyError
		if errors.As(err, &busy) {
			s.log.Warn("render rejected, busy", "kind", kind)
		} else {
			s.log.Error("render start failed", "kind", kind, "err", err)
		}
		return "", err
	}

	s.publish(events.RenderStarted, map[string]any{
		"kind":    string(kind),
		"request": req.ID,
		"version": snap.Version,
	})

	go func() {
		<-req.Done()
		artifact, err := req.Result()
		if err != nil {
			fields := map[string]any{
				"kind":    string(kind),
				"request": req.ID,
				"reason":  "error",
				"error":   err.Error(),
			}
			var failed *render.FailedError
			if errors.As(err, &failed) {
				fields["reason"] = failed.Reason()
				fields["stderr"] = failed.Stderr
			}
			s.publish(events.RenderFailed, fields)
			return
		}
		s.publish(events.RenderSucceeded, map[string]any{
			"kind":    string(kind),
			"request": req.ID,
			"path":    artifact.Path,
			"hash":    artifact.SourceScriptHash,
		})
	}()

	return req.ID, nil
}

func (s *Studio) sceneChanged() {
	s.publish(events.SceneChanged, map[string]any{"version": s.store.Version()})
}

func (s *Studio) publish(name string, fields map[string]any) {
	e := events.Event{Time: time.Now(), Name: name, Fields: fields}
	if err := s.bus.Publish(e); err != nil {
		s.log.Error("event publish failed", "event", name, "err", err)
	}
}

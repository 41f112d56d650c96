package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tailwiinder/easymanim/internal/config"
	"github.com/tailwiinder/easymanim/internal/events"
	"github.com/tailwiinder/easymanim/internal/project"
	"github.com/tailwiinder/easymanim/internal/render"
	"github.com/tailwiinder/easymanim/internal/studio"
	"github.com/tailwiinder/easymanim/internal/system"
)

// Minimum advisory memory headroom before a video render.
const videoHeadroomBytes = 2 << 30

func main() {
	projectPtr := flag.String("project", "", "Path to a scene document (YAML)")
	modePtr := flag.String("mode", "preview", "Render mode: preview or video")
	configPtr := flag.String("config", "", "Path to an engine config file (YAML)")
	outputPtr := flag.String("output", "", "Artifact output directory (overrides config)")
	timeoutPtr := flag.Int("timeout", 0, "Render timeout in seconds (overrides config)")
	keepPtr := flag.Bool("keep-workdirs", false, "Keep per-render temp directories for debugging")

	flag.Parse()

	if *projectPtr == "" {
		log.Fatal("[-] no scene document given, use -project scene.yaml")
	}

	var kind render.Kind
	switch *modePtr {
	case "preview":
		kind = render.KindPreview
	case "video":
		kind = render.KindVideo
	default:
		log.Fatalf("[-] unknown mode %q, use preview or video", *modePtr)
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] config error: %v", err)
		}
		cfg = loaded
	}
	if *outputPtr != "" {
		cfg.OutputDir = *outputPtr
	}
	if *timeoutPtr > 0 {
		cfg.TimeoutSeconds = *timeoutPtr
	}
	if *keepPtr {
		cfg.KeepWorkdirs = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if path, version, err := system.FindRenderer(cfg.Binary); err != nil {
		logger.Warn("renderer probe failed, rendering will likely fail", "err", err)
	} else {
		logger.Info("renderer found", "path", path, "version", version)
	}

	if kind == render.KindVideo {
		if res, err := system.Probe(); err == nil && !res.Headroom(videoHeadroomBytes) {
			logger.Warn("low memory headroom for a video render",
				"available", res.AvailableMemory, "cpus", res.LogicalCPUs)
		}
	}

	st := studio.New(render.NewOrchestrator(render.OptionsFromConfig(cfg)), logger)

	doc, err := project.Load(*projectPtr)
	if err != nil {
		log.Fatalf("[-] scene document error: %v", err)
	}
	if err := doc.Apply(st.Store()); err != nil {
		log.Fatalf("[-] scene document invalid: %v", err)
	}
	fmt.Printf("[*] Scene loaded: %s | Objects: %d\n", *projectPtr, st.Store().Len())

	sub := st.Subscribe()
	defer st.Unsubscribe(sub)

	reqID, err := requestRender(st, kind)
	if err != nil {
		log.Fatalf("[-] render request failed: %v", err)
	}
	fmt.Printf("[*] Render started: %s\n", reqID)

	for e := range sub {
		if e.Fields["request"] != reqID {
			continue
		}
		switch e.Name {
		case events.RenderSucceeded:
			fmt.Printf("[+] Done: %v\n", e.Fields["path"])
			return
		case events.RenderFailed:
			fmt.Fprintf(os.Stderr, "[-] Render failed (%v)\n", e.Fields["reason"])
			if stderr, ok := e.Fields["stderr"].(string); ok && stderr != "" {
				fmt.Fprintln(os.Stderr, stderr)
			}
			os.Exit(1)
		}
	}
}

func requestRender(st *studio.Studio, kind render.Kind) (string, error) {
	if kind == render.KindPreview {
		return st.RequestPreview(context.Background())
	}
	return st.RequestRender(context.Background())
}

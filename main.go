package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"blobtrack/config"
	"blobtrack/serve"
	"blobtrack/track"
	"blobtrack/video"
	"blobtrack/video/process"
	"blobtrack/video/sink"
	"blobtrack/video/source"
)

var (
	configFlag    = flag.String("config", "", "JSON config file, reloaded on change.")
	videoFlag     = flag.String("video", "", "Video file to process.")
	outFlag       = flag.String("out", "", "CSV output path.")
	thresholdFlag = flag.Int("threshold", config.DefaultThreshold, "Brightness threshold in [0,255].")
	watchFlag     = flag.String("watch", "", "Directory to watch for new video files.")
	dbFlag        = flag.String("db", "", "Sqlite database for run history.")
	portFlag      = flag.Int("port", 0, "Port to host the debug server (MJPEG, metrics, runs).")
	snapshotFlag  = flag.String("snapshot", "", "Write an annotated JPEG of the first detection here.")
	previewFlag   = flag.Bool("preview", false, "Show a live preview window.")
	verbose       = flag.Bool("v", false, "Enable verbose logging.")
)

// applyFlags overlays only the flags actually given on the command line,
// so a flag left at its default never masks a config file or environment
// value.
func applyFlags(c *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "video":
			c.VideoPath = *videoFlag
		case "out":
			c.OutputPath = *outFlag
		case "threshold":
			c.BrightnessThreshold = *thresholdFlag
		case "watch":
			c.WatchDir = *watchFlag
		case "db":
			c.DatabasePath = *dbFlag
		case "port":
			c.DebugPort = *portFlag
		case "snapshot":
			c.SnapshotPath = *snapshotFlag
		case "preview":
			c.Preview = *previewFlag
		}
	})
}

// currentConfig resolves the effective config: defaults, then environment,
// then the latest config file snapshot, then command line flags.
func currentConfig() *config.Config {
	c := config.Get()
	if c == nil {
		c = config.Default()
		config.FromEnv(c)
	}
	cc := *c
	applyFlags(&cc)
	return &cc
}

// csvPathFor places a watch mode CSV next to its video.
func csvPathFor(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".csv"
}

type app struct {
	store   *track.Store
	mjpeg   *sink.MJPEGServer
	debug   *sink.MJPEGStreamPool
	preview sink.Sink
}

// runOne processes a single video end to end: open, track, write the CSV,
// then record the run in the store when one is configured.
func (a *app) runOne(cfg *config.Config, videoPath, outPath string) error {
	src, err := source.OpenFile(videoPath)
	if err != nil {
		return err
	}
	defer src.Close()

	tracker := process.NewTracker(cfg.BrightnessThreshold)
	defer tracker.Close()
	if a.debug != nil {
		tracker.SetDebug(a.debug)
	}

	p := &video.Pipeline{
		Source:       src,
		Tracker:      tracker,
		Preview:      a.preview,
		Debug:        a.debug,
		SnapshotPath: cfg.SnapshotPath,
	}
	res := p.Run()

	if err := track.SaveCSV(outPath, res.Samples); err != nil {
		return fmt.Errorf("write %v: %w", outPath, err)
	}
	fmt.Printf("Coordinates saved to %v\n", outPath)

	if a.store != nil {
		run := &track.Run{
			RunID:      uuid.New().String(),
			Video:      videoPath,
			FPS:        res.FPS,
			FrameCount: res.FramesRead,
			Threshold:  cfg.BrightnessThreshold,
		}
		if err := a.store.SaveRun(run, res.Samples); err != nil {
			log.Errorf("Failed to save run history: %v", err)
		} else {
			log.WithField("run", run.RunID).Infof("Run history saved")
		}
	}
	return nil
}

func main() {
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := godotenv.Load(); err == nil {
		log.Debugf("Environment loaded from .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *configFlag != "" {
		if err := config.Load(ctx, *configFlag); err != nil {
			log.Fatalf("Failed to load config %v: %v", *configFlag, err)
		}
	}

	cfg := currentConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.VideoPath == "" && cfg.WatchDir == "" {
		fmt.Println("How to run:\n\tblobtrack -video [video file]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	a := &app{
		mjpeg: sink.NewMJPEGServer(),
	}

	if cfg.DatabasePath != "" {
		store, err := track.OpenStore(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open run store: %v", err)
		}
		a.store = store
	}

	if cfg.DebugPort > 0 {
		a.debug = a.mjpeg.NewStreamPool()
		defer a.debug.Close()

		srv := &serve.Server{MJPEG: a.mjpeg, Store: a.store}
		http.Handle("/", srv.Handler())
		go func() {
			log.Infof("Hosting debug server on port %d", cfg.DebugPort)
			log.Println(http.ListenAndServe(fmt.Sprintf(":%d", cfg.DebugPort), nil))
		}()
	}

	if cfg.Preview {
		w := sink.NewWindow("blobtrack")
		defer w.Close()
		a.preview = w
	}

	if cfg.WatchDir != "" {
		ingest, err := video.NewIngest(cfg.WatchDir)
		if err != nil {
			log.Fatalf("Failed to watch %v: %v", cfg.WatchDir, err)
		}
		err = ingest.Run(ctx, func(path string) {
			// Re-resolve so config file edits apply to the next video.
			cfg := currentConfig()
			if err := a.runOne(cfg, path, csvPathFor(path)); err != nil {
				log.Errorf("Failed to process %v: %v", path, err)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Fatalf("Watch failed: %v", err)
		}
		log.Infof("Shutting down")
		return
	}

	if err := a.runOne(cfg, cfg.VideoPath, cfg.OutputPath); err != nil {
		log.Fatalf("Failed to process %v: %v", cfg.VideoPath, err)
	}
}

package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/kinematic/settings"
	"github.com/oomph-ac/kinematic/trace"
	"github.com/sirupsen/logrus"
)

var (
	debug      = flag.Bool("debug", false, "log every tick of the character")
	configPath = flag.String("config", "settings.toml", "path of the settings file, created if missing")
	ticks      = flag.Uint64("ticks", 600, "amount of ticks to simulate")
	realtime   = flag.Bool("realtime", false, "wait between ticks instead of simulating as fast as possible")
)

// The following program walks a character up a slope, past a moving platform and a falling crate, and
// records its motion.
func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("unable to initialise sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}
	if addr := os.Getenv("STATSVIEW_ADDR"); addr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	conf, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}

	var out io.Writer
	if conf.Trace.Enabled {
		f, err := os.Create(conf.Trace.Path)
		if err != nil {
			log.Fatalf("unable to create trace file: %v", err)
		}
		defer f.Close()
		out = f
	}
	rec := trace.NewRecorder(log, out, conf.Trace.History)

	sc := newScene(log, conf)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * conf.Delta()))
	defer ticker.Stop()

	for tick := uint64(0); tick < *ticks; tick++ {
		if *realtime {
			<-ticker.C
		}
		if !sc.safeTick(tick) {
			break
		}

		f := trace.FrameOf(tick, sc.player)
		rec.Record(f)
		if *debug {
			fields := logrus.Fields{}
			for el := f.Fields().Front(); el != nil; el = el.Next() {
				fields[el.Key] = el.Value
			}
			log.WithFields(fields).Debug("tick")
		}
	}

	if err := rec.Close(); err != nil {
		log.Errorf("trace incomplete: %v", err)
	}
	latest, _ := rec.History().Latest()
	log.Infof("simulated %d ticks, digest %016x, final position %v", rec.Count(), rec.Digest(), latest.Position)
}

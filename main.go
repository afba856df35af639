// Package main provides the entry point for the parkwatch monitoring
// application: it watches a parking lot video source, classifies space
// occupancy per frame and publishes the recommended route to a free space.
package main

import (
	"flag"
	"log"
	"os"

	"gocv.io/x/gocv"

	"parkwatch/internal/config"
	"parkwatch/internal/lot"
	"parkwatch/internal/monitor"
	"parkwatch/internal/server"
	"parkwatch/internal/telemetry"
	"parkwatch/internal/version"
)

func main() {
	configPath := flag.String("config", "config/parking_config.json", "Path to configuration file")
	lotName := flag.String("lot", "default", "Parking lot name from the configuration")
	listen := flag.String("listen", ":8080", "HTTP listen address for status and websocket")
	broker := flag.String("mqtt", "", "MQTT broker URL for occupancy telemetry (empty disables)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting parkwatch v%s", version.Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		log.Printf("Config %s not found, writing defaults", *configPath)
		cfg = config.Default()
		if err := cfg.Save(*configPath); err != nil {
			log.Printf("Failed to save default config: %v", err)
		}
	}

	lotCfg, err := cfg.Lot(*lotName)
	if err != nil {
		log.Fatalf("Failed to resolve lot: %v", err)
	}

	layout, err := lot.Load(lotCfg.LayoutPath, lotCfg.LayoutDefaults())
	if err != nil {
		log.Fatalf("Failed to load layout %s: %v", lotCfg.LayoutPath, err)
	}
	log.Printf("Loaded lot %q: %d spaces, %d route points",
		lotCfg.Name, len(layout.Regions), len(layout.RoutePoints))

	opts := []monitor.Option{}
	if lotCfg.Entrance != nil {
		opts = append(opts, monitor.WithEntrance(*lotCfg.Entrance))
	}
	if lotCfg.StabilizationFrames > 0 {
		opts = append(opts, monitor.WithStabilization(lotCfg.StabilizationFrames))
	}

	srv := server.New()
	opts = append(opts, monitor.WithSink(srv))

	if *broker != "" {
		pub, err := telemetry.NewPublisher(*broker, "parkwatch-"+*lotName, *lotName)
		if err != nil {
			log.Fatalf("Failed to connect telemetry: %v", err)
		}
		defer pub.Close()
		opts = append(opts, monitor.WithSink(monitor.SinkFunc(func(r *monitor.Result) error {
			return pub.Publish(r.Report)
		})))
	}

	mon, err := monitor.New(*lotName, layout, lotCfg.Processing, lotCfg.Routing, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize monitor: %v", err)
	}

	go func() {
		log.Printf("Serving status on %s", *listen)
		if err := srv.ListenAndServe(*listen); err != nil {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	if err := run(mon, lotCfg.VideoSource); err != nil {
		log.Fatalf("Monitoring stopped: %v", err)
	}
}

// run drives the capture loop. Failed frames are reported once and
// skipped; monitoring continues with the next frame.
func run(mon *monitor.Monitor, source string) error {
	capture, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return err
	}
	defer capture.Close()

	img := gocv.NewMat()
	defer img.Close()

	var frameIndex int64
	for {
		if ok := capture.Read(&img); !ok {
			// End of a file source: restart from the beginning.
			capture.Set(gocv.VideoCapturePosFrames, 0)
			if ok := capture.Read(&img); !ok {
				return nil
			}
		}
		if img.Empty() {
			continue
		}

		if _, err := mon.ProcessFrame(img, frameIndex); err != nil {
			log.Printf("Skipping frame %d: %v", frameIndex, err)
		}
		frameIndex++
	}
}

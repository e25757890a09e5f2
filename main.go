package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
	"github.com/df07/go-progressive-photonmapper/pkg/lights"
	"github.com/df07/go-progressive-photonmapper/pkg/log"
	"github.com/df07/go-progressive-photonmapper/pkg/renderer"
	"github.com/df07/go-progressive-photonmapper/pkg/scene"
)

var logger = log.New("photonmapper")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// The default version flag also claims -v, which is the verbose flag here
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "photonmapper"
	app.Usage = "render scenes using progressive photon mapping"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene",
			Description: `
Trace a fixed photon budget every pass, gather it at the eye-path records of
every pixel and shrink the search radii. The image is written after the last pass.

Settings come from the defaults, then the --config file, then explicit flags.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "cornell",
					Usage: "built-in scene to render (see the scenes command)",
				},
				cli.StringFlag{
					Name:  "config, c",
					Usage: "JSON photon config file",
				},
				cli.StringFlag{
					Name:  "strategy",
					Value: string(integrator.StrategyPPM),
					Usage: "eye path strategy: ppm or sppm",
				},
				cli.IntFlag{
					Name:  "photons",
					Value: 10000,
					Usage: "photons stored per pass",
				},
				cli.IntFlag{
					Name:  "iterations, n",
					Value: 1,
					Usage: "number of photon passes",
				},
				cli.Float64Flag{
					Name:  "radius",
					Usage: "initial search radius (default: scene recommendation)",
				},
				cli.Float64Flag{
					Name:  "alpha",
					Value: 0.7,
					Usage: "fraction of new photons kept each pass",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 1,
					Usage: "viewpoints per pixel (ppm)",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels (default: scene width)",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of parallel workers (0 = CPU count)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "base random seed",
				},
				cli.StringFlag{
					Name:  "emitter-selection",
					Value: string(lights.SelectionUniform),
					Usage: "emitter selection: uniform or power",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output image (.png or .bmp); default output/<scene>/render_<timestamp>_<run>.png",
				},
			},
			Action: renderScene,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: listScenes,
		},
	}
	return app
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// buildConfig layers the config file and explicitly set flags over the defaults
func buildConfig(ctx *cli.Context, s *scene.Scene) (renderer.PhotonConfig, error) {
	config := renderer.DefaultPhotonConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if config, err = renderer.LoadPhotonConfig(path); err != nil {
			return config, err
		}
	} else if s.RecommendedRadius > 0 {
		config.InitialRadius = s.RecommendedRadius
	}

	if ctx.IsSet("strategy") {
		config.Strategy = integrator.StrategyName(ctx.String("strategy"))
	}
	if ctx.IsSet("photons") {
		config.PhotonsPerPass = ctx.Int("photons")
	}
	if ctx.IsSet("iterations") {
		config.Iterations = ctx.Int("iterations")
	}
	if ctx.IsSet("radius") {
		config.InitialRadius = ctx.Float64("radius")
	}
	if ctx.IsSet("alpha") {
		config.Alpha = ctx.Float64("alpha")
	}
	if ctx.IsSet("spp") {
		config.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("workers") {
		config.NumWorkers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		config.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("emitter-selection") {
		config.EmitterSelection = lights.Selection(ctx.String("emitter-selection"))
	}

	return config, config.Validate()
}

// Render a built-in scene progressively and save the final image.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneID := ctx.String("scene")
	s, err := scene.NewScene(sceneID, geometry.CameraConfig{Width: ctx.Int("width")})
	if err != nil {
		return err
	}

	config, err := buildConfig(ctx, s)
	if err != nil {
		return err
	}

	pr, err := renderer.NewProgressiveRenderer(s, config, logger)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		out = renderer.DefaultOutputPath(sceneID, pr.RunID(), time.Now())
	}

	logger.Noticef("rendering %s (%dx%d) with %s, run %s", s.Name, s.Width(), s.Height(), config.Strategy, pr.RunID())

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	passChan, errChan := pr.RenderProgressive(runCtx)

	var stats []renderer.PassStats
	var last *renderer.PassResult
	for result := range passChan {
		stats = append(stats, result.Stats)
		last = &result
	}
	if err := <-errChan; err != nil {
		return err
	}

	logger.Noticef("pass statistics\n%s", renderer.FormatPassStats(stats))

	img := pr.Film().Image()
	if last != nil {
		img = last.Image
	}
	if err := renderer.SaveImage(out, img); err != nil {
		return err
	}

	logger.Noticef("render completed in %v, saved as %s", time.Since(startTime), out)
	return nil
}

// List the built-in scenes.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Description"})
	for _, info := range scene.ListScenes() {
		table.Append([]string{info.ID, info.DisplayName, info.Description})
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

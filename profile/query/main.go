// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"flag"
	"os"

	"github.com/edwinsyarief/kura"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

func main() {
	configPath := flag.String("config", "", "optional TOML world config")
	rounds := flag.Int("rounds", 50, "number of worlds to create")
	iters := flag.Int("iters", 10000, "view passes per world")
	entities := flag.Int("entities", 100000, "entities per world")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := kura.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*rounds, *iters, *entities, opts)
	p.Stop()
}

func run(rounds, iters, numEntities int, opts []kura.Option) {
	for range rounds {
		w := kura.NewWorld(opts...)
		ids := []kura.ComponentID{
			kura.RegisterComponent[comp1](w),
			kura.RegisterComponent[comp2](w),
			kura.RegisterComponent[comp3](w),
			kura.RegisterComponent[comp4](w),
		}
		builder, err := kura.NewBuilder(w, ids...)
		if err != nil {
			w.Logger().Fatal().Err(err).Msg("failed to create builder")
		}
		builder.NewBatch(numEntities)

		view := kura.NewView4[comp1, comp2, comp3, comp4](w)
		for range iters {
			view.EachChunk(func(c kura.ChunkView4[comp1, comp2, comp3, comp4]) {
				for i := range c.Entities {
					c.C1[i].V += c.C2[i].V
					c.C1[i].W += c.C2[i].W
				}
			})
		}
		w.LogArchetypes(zerolog.InfoLevel)
	}
}

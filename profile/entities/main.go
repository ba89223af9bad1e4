// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

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

func main() {
	configPath := flag.String("config", "", "optional TOML world config")
	rounds := flag.Int("rounds", 50, "number of worlds to create")
	iters := flag.Int("iters", 10000, "create/remove cycles per world")
	entities := flag.Int("entities", 1000, "entities per cycle")
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

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*rounds, *iters, *entities, opts)
	p.Stop()
}

func run(rounds, iters, numEntities int, opts []kura.Option) {
	for range rounds {
		w := kura.NewWorld(opts...)
		c1 := kura.RegisterComponent[comp1](w)
		c2 := kura.RegisterComponent[comp2](w)
		view := kura.NewView2[comp1, comp2](w)
		builder, err := kura.NewBuilder(w, c1, c2)
		if err != nil {
			w.Logger().Fatal().Err(err).Msg("failed to create builder")
		}

		entities := make([]kura.Entity, 0, numEntities)
		for range iters {
			builder.NewBatch(numEntities)
			entities = entities[:0]
			view.Reset()
			for view.Next() {
				entities = append(entities, view.Entity())
				a, b := view.Get()
				a.V += b.V
				a.W += b.W
			}
			for _, e := range entities {
				if err := w.Release(e); err != nil {
					w.Logger().Fatal().Err(err).Msg("failed to release entity")
				}
			}
		}
		w.ReportStats()
	}
}

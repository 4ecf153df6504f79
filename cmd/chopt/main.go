// Command chopt runs the Star Power activation optimiser over a
// pre-parsed chart and prints the resulting schedule. It takes a
// JSON-encoded chart.Song rather than a .chart/.mid file directly: chart
// parsing is a collaborator of this module, not part of it.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/alecthomas/kingpin.v2"

	"starpower/internal/chart"
	"starpower/internal/engine"
	"starpower/internal/history"
	"starpower/internal/optimiser"
	"starpower/internal/points"
	"starpower/internal/render"
	"starpower/internal/song"
)

var (
	songFile = kingpin.Arg("song", "Path to a JSON-encoded chart.Song").Required().ExistingFile()
	variant  = kingpin.Flag("engine", "Engine variant: ch or rb").Default("ch").Short('e').Enum("ch", "rb")
	speedup  = kingpin.Flag("speedup", "Song speed as a percentage").Default("100").Short('s').Float64()
	squeeze  = kingpin.Flag("squeeze", "Timing squeeze fraction, 0-1").Default("0").Short('q').Float64()
	videoLag = kingpin.Flag("video-lag", "Audio/video lag offset").Default("0s").Duration()
	fillOnly = kingpin.Flag("fill-only", "Require a drum fill to activate (recorded only; the search does not apply it)").Default("false").Bool()
	parallel = kingpin.Flag("parallel", "Max parallel search workers, 0 for sequential").Default("0").Short('p').Int()
	cacheDB  = kingpin.Flag("cache", "Run-history SQLite database path").Default("").String()
	debug    = kingpin.Flag("debug", "Dump the built point set before searching").Default("false").Bool()
)

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	data, err := os.ReadFile(*songFile)
	if err != nil {
		return err
	}
	var s chart.Song
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	eng := engine.For(variantOf(*variant))
	sq := points.Squeeze{
		Squeeze:  *squeeze,
		VideoLag: chart.Second(videoLag.Seconds()),
	}
	drum := song.DrumSettings{RequireFillToActivate: *fillOnly}

	proc, err := song.Build(s, sq, eng, drum, *speedup)
	if err != nil {
		return err
	}
	for _, w := range proc.Warnings {
		log.Printf("warning: %s: %s", w.Kind, w.Message)
	}
	if *debug {
		spew.Dump(proc.Points)
	}

	var store *history.Store
	digest := s.Track.Digest()
	if *cacheDB != "" {
		store, err = history.Open(*cacheDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if cached, ok := store.Load(digest, eng.Variant); ok {
			log.Println("using cached run")
			return renderPath(proc, cached)
		}
	}

	var path optimiser.Path
	if *parallel > 0 {
		path = optimiser.OptimiseParallel(proc, *parallel)
	} else {
		path = optimiser.Optimise(proc)
	}

	if store != nil {
		store.Save(digest, eng.Variant, path)
	}
	return renderPath(proc, path)
}

func renderPath(proc *song.Processed, path optimiser.Path) error {
	r := &render.DefaultRenderer{}
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Deinit()
	return r.RenderPath(proc, path)
}

func variantOf(s string) engine.Variant {
	if s == "rb" {
		return engine.RockBand
	}
	return engine.CloneHero
}

package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"golang.org/x/term"

	"starpower/internal/optimiser"
	"starpower/internal/song"
)

// DefaultRenderer prints a coloured report to an io.Writer, sized to the
// terminal width when one is attached.
type DefaultRenderer struct {
	Out   io.Writer
	width int
}

func (r *DefaultRenderer) Init() error {
	if r.Out == nil {
		r.Out = os.Stdout
	}
	r.width = 80
	if f, ok := r.Out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			r.width = w
		}
	}
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	return nil
}

func (r *DefaultRenderer) rule() {
	for i := 0; i < r.width; i++ {
		fmt.Fprint(r.Out, "-")
	}
	fmt.Fprintln(r.Out)
}

// RenderPath prints the activation schedule followed by a score summary.
func (r *DefaultRenderer) RenderPath(proc *song.Processed, path optimiser.Path) error {
	fmt.Fprintf(r.Out, "\033[1;36mStar Power schedule\033[0m (%s)\n", humanize.Comma(int64(len(path.Activations))))
	r.rule()

	for i, a := range path.Activations {
		engage := proc.Converter.BeatsToSeconds(a.EngageBeat)
		end := proc.Converter.BeatsToSeconds(a.EndBeat)
		durStr := durafmt.Parse(time.Duration(float64(end-engage) * float64(time.Second))).LimitFirstN(2).String()
		fmt.Fprintf(r.Out, "%3d) engage \033[1;32m%8.3fs\033[0m  release \033[1;33m%8.3fs\033[0m  (%s)\n",
			i+1, float64(engage), float64(end), durStr)
	}
	if len(path.Activations) == 0 {
		fmt.Fprintln(r.Out, "  (no activations)")
	}

	r.rule()
	fmt.Fprintf(r.Out, "Score: \033[1;35m%s\033[0m\n", humanize.Comma(path.Score))
	return nil
}

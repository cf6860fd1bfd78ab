package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/matzehuels/gdm/pkg/observability"
)

// installPrinter writes install progress to w, one line per event, indented
// by nesting depth.
type installPrinter struct {
	w  io.Writer
	mu sync.Mutex
}

var _ observability.InstallHooks = (*installPrinter)(nil)

func newInstallPrinter(w io.Writer) *installPrinter {
	return &installPrinter{w: w}
}

func (p *installPrinter) line(depth int, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, indent(depth)+s)
}

func (p *installPrinter) OnInstallStart(_ context.Context, storage string, depth int) {
	if depth == 0 {
		p.line(0, styleIconInfo.Render(iconInfo)+" Installing into "+StyleValue.Render(storage))
	}
}

func (p *installPrinter) OnSourceStart(context.Context, string, int) {}

func (p *installPrinter) OnSourceComplete(_ context.Context, source string, depth int, d time.Duration, err error) {
	elapsed := StyleDim.Render(fmt.Sprintf("(%s)", d.Round(time.Millisecond)))
	if err != nil {
		p.line(depth, styleIconError.Render(iconError)+" "+source+" "+elapsed)
		return
	}
	p.line(depth, styleIconSuccess.Render(iconSuccess)+" "+source+" "+elapsed)
}

func (p *installPrinter) OnLinkCreated(_ context.Context, link, _ string, depth int) {
	p.line(depth+1, StyleDim.Render(iconArrow)+" "+StyleValue.Render(link))
}

func (p *installPrinter) OnNestedConfig(_ context.Context, path string, depth int) {
	p.line(depth+1, StyleDim.Render("nested ")+StyleHighlight.Render(path))
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"droplayer/pkg/config"
	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/resource"
)

// dropFlags describe the one drop place and snapshot add to the page.
type dropFlags struct {
	anchor      string
	content     string
	contentFile string
	align       string
	className   string
	colorIndex  string
}

func (f *dropFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.anchor, "anchor", "", "id of the anchor element")
	fl.StringVar(&f.content, "content", "", "drop content as an HTML fragment")
	fl.StringVar(&f.contentFile, "content-file", "", "read drop content from a file")
	fl.StringVar(&f.align, "align", "", `alignment, e.g. "top=bottom,left=left" (default from config)`)
	fl.StringVar(&f.className, "class", "", "extra class for the drop container")
	fl.StringVar(&f.colorIndex, "color", "", "color index class suffix")
}

func (f *dropFlags) loadContent() (string, error) {
	if f.contentFile == "" {
		return f.content, nil
	}
	data, err := os.ReadFile(f.contentFile)
	if err != nil {
		return "", fmt.Errorf("reading drop content: %w", err)
	}
	return string(data), nil
}

// options builds the drop options; an empty --align falls back to the
// configured default.
func (f *dropFlags) options(cfg config.Config) (drop.Options, error) {
	align := cfg.Align()
	if f.align != "" {
		a, err := drop.ParseAlign(f.align)
		if err != nil {
			return drop.Options{}, err
		}
		align = a
	}
	return drop.Options{Align: align, ClassName: f.className, ColorIndex: f.colorIndex}, nil
}

// sessionFlags control how the page is loaded.
type sessionFlags struct {
	width     float64
	height    float64
	noScripts bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", 0, "viewport width (default from config)")
	fl.Float64Var(&f.height, "height", 0, "viewport height (default from config)")
	fl.BoolVar(&f.noScripts, "no-scripts", false, "do not run the page's scripts")
}

func (f *sessionFlags) open(ctx context.Context, uri string) (*resource.Session, error) {
	cfg := configFromContext(ctx)
	return resource.Open(uri, resource.Options{
		Viewport:    f.viewport(cfg),
		BaseClass:   cfg.Drop.BaseClass,
		ColorPrefix: cfg.Drop.ColorPrefix,
		Logger:      loggerFromContext(ctx),
		NoScripts:   f.noScripts,
	})
}

// viewport is the configured viewport with the flag overrides applied.
func (f *sessionFlags) viewport(cfg config.Config) geom.Size {
	vp := cfg.Viewport.Size()
	if f.width > 0 {
		vp.Width = f.width
	}
	if f.height > 0 {
		vp.Height = f.height
	}
	return vp
}

type placeResult struct {
	ID string `json:"id"`
	drop.Placement
	Warnings []string `json:"warnings"`
}

func newPlaceCmd() *cobra.Command {
	var (
		df     dropFlags
		sf     sessionFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "place <page>",
		Short: "Add a drop to a page and print its placement",
		Long: `Load an HTML page (file or URL), run its scripts, add a drop anchored on
--anchor and print the resulting left, top and width.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if df.anchor == "" {
				return fmt.Errorf("--anchor is required")
			}
			res, err := runPlace(cmd.Context(), args[0], &sf, &df)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printPlacement(out, res)
			return nil
		},
	}
	df.register(cmd)
	sf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the placement as JSON")
	return cmd
}

func runPlace(ctx context.Context, uri string, sf *sessionFlags, df *dropFlags) (placeResult, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	opts, err := df.options(configFromContext(ctx))
	if err != nil {
		return placeResult{}, err
	}
	content, err := df.loadContent()
	if err != nil {
		return placeResult{}, err
	}
	s, err := sf.open(ctx, uri)
	if err != nil {
		return placeResult{}, err
	}

	_, warnings := drop.Resolve(opts)
	d, err := s.Place(df.anchor, content, opts)
	if err != nil {
		return placeResult{}, err
	}
	s.Settle()
	prog.done("placed " + d.ID())

	p, _ := d.Placement()
	res := placeResult{ID: d.ID(), Placement: p, Warnings: make([]string, 0, len(warnings))}
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}
	return res, nil
}

func printPlacement(w io.Writer, res placeResult) {
	for _, warn := range res.Warnings {
		printWarning(w, "%s", warn)
	}
	printSuccess(w, "%s", StyleTitle.Render(res.ID))
	printNumber(w, "left", res.Left)
	printNumber(w, "top", res.Top)
	printNumber(w, "width", res.Width)
	printNumber(w, "viewport top", res.ViewportTop)
}

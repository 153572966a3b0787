// ShedCraft places accessories on the walls and roof of a parametric
// building and exports the result as wall elevations, labels, a schedule
// and a floor plan.
//
// Build:
//   go build -o shedcraft ./cmd/shedcraft
//
// Example:
//   shedcraft -template "12x16 Gable" -accessories doors.csv -out build -export pdf,xlsx

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/ShedCraft/internal/engine"
	"github.com/piwi3910/ShedCraft/internal/export"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/importer"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/piwi3910/ShedCraft/internal/project"
	"github.com/piwi3910/ShedCraft/internal/session"
)

type options struct {
	config      string
	templates   string
	backup      string
	restore     string
	template    string
	plan        string
	wallHeight  float64
	scene       string
	accessories string
	out         string
	save        string
	exports     string
	logLevel    string
	list        bool

	panelWidth  float64
	panelHeight float64
	waste       float64
	panelPrice  float64
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "shedcraft:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("shedcraft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", project.DefaultConfigPath(), "application config file")
	fs.StringVar(&o.templates, "templates", project.DefaultTemplatePath(), "custom building templates file")
	fs.StringVar(&o.backup, "backup", "", "write config and custom templates to this file, then exit")
	fs.StringVar(&o.restore, "restore", "", "restore config and custom templates from a backup, then exit")
	fs.StringVar(&o.template, "template", "", "building template name (default from config)")
	fs.StringVar(&o.plan, "plan", "", "DXF floor plan to build walls from")
	fs.Float64Var(&o.wallHeight, "wall-height", geom.FeetToCM(8), "wall height in cm for -plan")
	fs.StringVar(&o.scene, "scene", "", "saved scene to start from")
	fs.StringVar(&o.accessories, "accessories", "", "CSV or Excel accessory list to place")
	fs.StringVar(&o.out, "out", ".", "output directory")
	fs.StringVar(&o.save, "save", "", "write the resulting scene to this file")
	fs.StringVar(&o.exports, "export", "", "comma-separated exports: pdf, labels, xlsx, dxf")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	fs.BoolVar(&o.list, "list", false, "list templates and accessory types, then exit")
	fs.Float64Var(&o.panelWidth, "panel-width", geom.FeetToCM(4), "siding panel width in cm")
	fs.Float64Var(&o.panelHeight, "panel-height", geom.FeetToCM(8), "siding panel height in cm")
	fs.Float64Var(&o.waste, "waste", 10, "siding waste allowance in percent")
	fs.Float64Var(&o.panelPrice, "panel-price", 0, "price per siding panel")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if o.plan != "" && o.scene != "" {
		return o, fmt.Errorf("-plan and -scene are mutually exclusive")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := project.LoadAppConfig(o.config)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: project.ParseLogLevel(level)}))
	slog.SetDefault(logger)

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	templates, err := project.LoadTemplates(o.templates)
	if err != nil {
		logger.Warn("custom templates unavailable", "error", err)
		templates = nil
	}

	switch {
	case o.backup != "":
		if err := project.ExportAllData(o.backup, cfg, templates); err != nil {
			return err
		}
		logger.Info("backup written", "path", o.backup, "templates", len(templates))
		return nil
	case o.restore != "":
		return restore(o, logger)
	}

	if o.list {
		printCatalog(stdout, catalog, templates)
		return nil
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	settings = settings.Normalized()

	b, objects, err := loadBuilding(o, cfg, templates, logger)
	if err != nil {
		return err
	}

	planner := session.NewPlanner(b, catalog, settings, cfg.HistoryDepth, logger)
	if len(objects) > 0 {
		if err := planner.Load(objects); err != nil {
			return err
		}
	}

	if o.accessories != "" {
		if err := placeAccessories(planner, o.accessories, logger); err != nil {
			return err
		}
	}

	printWalls(stdout, planner)
	est := model.EstimateSiding(b.Walls, planner.Objects(), o.panelWidth, o.panelHeight, o.waste, o.panelPrice)
	printSiding(stdout, est)

	if o.save != "" {
		if err := project.SaveScene(o.save, b, planner.Objects()); err != nil {
			return err
		}
		logger.Info("scene saved", "path", o.save)
	}
	return runExports(o, b, catalog, planner.Objects(), settings, logger)
}

// restore replaces the config and custom templates with a backup's.
func restore(o options, logger *slog.Logger) error {
	data, err := project.ImportAllData(o.restore)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(o.config, data.Config); err != nil {
		return err
	}
	if err := project.SaveTemplates(o.templates, data.Templates); err != nil {
		return err
	}
	logger.Info("backup restored", "path", o.restore, "templates", len(data.Templates))
	return nil
}

func loadCatalog(path string) (*model.Catalog, error) {
	if path == "" {
		return model.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return model.LoadCatalog(data)
}

// loadBuilding picks the starting building: a saved scene, a DXF plan, or
// a template.
func loadBuilding(o options, cfg model.AppConfig, templates []model.BuildingTemplate, logger *slog.Logger) (*model.Building, []model.PlacedObject, error) {
	switch {
	case o.scene != "":
		s, err := project.LoadScene(o.scene)
		if err != nil {
			return nil, nil, err
		}
		return s.Building, s.Objects, nil
	case o.plan != "":
		name := strings.TrimSuffix(filepath.Base(o.plan), filepath.Ext(o.plan))
		res := importer.ImportWallsDXF(o.plan, name, o.wallHeight)
		for _, w := range res.Warnings {
			logger.Warn("plan import", "warning", w)
		}
		if len(res.Errors) > 0 {
			return nil, nil, fmt.Errorf("failed to import plan: %s", strings.Join(res.Errors, "; "))
		}
		return res.Building, nil, nil
	}
	name := o.template
	if name == "" {
		name = cfg.DefaultTemplate
	}
	tmpl, err := project.ResolveTemplate(name, templates)
	if err != nil {
		return nil, nil, err
	}
	b, err := tmpl.Build()
	if err != nil {
		return nil, nil, err
	}
	return b, nil, nil
}

func placeAccessories(p *session.Planner, path string, logger *slog.Logger) error {
	res := importer.Import(path)
	for _, w := range res.Warnings {
		logger.Warn("accessory list", "warning", w)
	}
	for _, e := range res.Errors {
		logger.Error("accessory list", "error", e)
	}
	if len(res.Rows) == 0 {
		return fmt.Errorf("no accessories read from %s", path)
	}
	reqs := make([]session.Request, len(res.Rows))
	for i, r := range res.Rows {
		reqs[i] = session.Request{
			Type:         r.Type,
			Wall:         r.Wall,
			Offset:       r.Offset,
			Elevation:    r.Elevation,
			HasElevation: r.HasElevation,
			Length:       r.Length,
		}
	}
	commits, errs := p.PlaceAll(reqs)
	logger.Info("accessories placed", "placed", len(commits), "failed", len(errs))
	return nil
}

func runExports(o options, b *model.Building, catalog *model.Catalog, objects []model.PlacedObject, settings model.PlacementSettings, logger *slog.Logger) error {
	if o.exports == "" {
		return nil
	}
	if err := os.MkdirAll(o.out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := b.Name
	if base == "" {
		base = "building"
	}
	base = strings.ReplaceAll(base, " ", "_")
	rows := export.CollectSchedule(b, catalog, objects)

	for _, kind := range strings.Split(o.exports, ",") {
		kind = strings.ToLower(strings.TrimSpace(kind))
		var (
			path string
			err  error
		)
		switch kind {
		case "":
			continue
		case "pdf":
			path = filepath.Join(o.out, base+".pdf")
			err = export.ExportPDF(path, b, catalog, objects, settings)
		case "labels":
			path = filepath.Join(o.out, base+"_labels.pdf")
			err = export.ExportLabels(path, rows)
		case "xlsx":
			path = filepath.Join(o.out, base+"_schedule.xlsx")
			err = export.ExportSchedule(path, rows, export.CollectTrim(b, settings.TrimWidth))
		case "dxf":
			path = filepath.Join(o.out, base+"_plan.dxf")
			err = export.ExportDXF(path, b, objects)
		default:
			return fmt.Errorf("unknown export %q", kind)
		}
		if err != nil {
			return fmt.Errorf("%s export: %w", kind, err)
		}
		logger.Info("exported", "kind", kind, "path", path)
	}
	return nil
}

func printCatalog(w io.Writer, catalog *model.Catalog, custom []model.BuildingTemplate) {
	fmt.Fprintln(w, "Templates:")
	for _, name := range model.PresetNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	for _, t := range custom {
		fmt.Fprintf(w, "  %s (custom)\n", t.Name)
	}
	fmt.Fprintln(w, "Accessories:")
	for _, typ := range catalog.Types() {
		caps, _ := catalog.Lookup(typ)
		fmt.Fprintf(w, "  %-16s %-22s %s x %s\n", caps.Type, caps.Label,
			geom.FormatFeetInches(caps.Width), geom.FormatFeetInches(caps.Height))
	}
}

// printWalls lists every wall with its free spans.
func printWalls(w io.Writer, p *session.Planner) {
	for _, group := range [][]*model.Wall{p.Building.Walls, p.Building.Roofs} {
		for _, wall := range group {
			areas, err := p.Areas(wall.ID)
			if err != nil {
				continue
			}
			var spans []string
			for _, m := range engine.Measurements(areas) {
				spans = append(spans, m.Label)
			}
			fmt.Fprintf(w, "%-12s %-10s free: %s\n", wall.Label, geom.FormatFeetInches(wall.Width), strings.Join(spans, ", "))
		}
	}
}

func printSiding(w io.Writer, est model.SidingEstimate) {
	fmt.Fprintf(w, "Siding: %.1f sq ft net, %d panels (%d with %.0f%% waste)",
		est.NetSquareFeet, est.PanelsMin, est.PanelsWithWaste, est.WastePercent)
	if est.EstimatedCost > 0 {
		fmt.Fprintf(w, ", est. %.2f", est.EstimatedCost)
	}
	fmt.Fprintln(w)
}

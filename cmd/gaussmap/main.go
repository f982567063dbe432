// cmd/gaussmap/main.go — Command-line Gauss map evaluator
//
// Usage:
//   go run ./cmd/gaussmap -surface sphere
//   go run ./cmd/gaussmap -x 'u' -y 'v' -z 'u^2 - v^2' -umin -1 -umax 1 -vmin -1 -vmax 1
//   go run ./cmd/gaussmap -config surface.yaml -format json
//   go run ./cmd/gaussmap -interactive
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/njchilds90/gaussmap"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("gaussmap: ")

	cfg, interactive, list, err := loadFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if list {
		for _, name := range gaussmap.CatalogNames() {
			fmt.Println(name)
		}
		return
	}
	if interactive {
		in, err := prompt(bufio.NewReader(os.Stdin), os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Name, cfg.Surface = "", in
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// loadFlags applies the config file named by -config, then explicit flags.
func loadFlags(fs *flag.FlagSet, args []string) (cfg gaussmap.Config, interactive, list bool, err error) {
	def := gaussmap.DefaultConfig()
	var (
		configPath = fs.String("config", "", "YAML config file")
		name       = fs.String("surface", "", "catalog surface name (see -list)")
		x          = fs.String("x", "", "x(u, v)")
		y          = fs.String("y", "", "y(u, v)")
		z          = fs.String("z", "", "z(u, v)")
		uMin       = fs.String("umin", "", "lower bound of u")
		uMax       = fs.String("umax", "", "upper bound of u")
		vMin       = fs.String("vmin", "", "lower bound of v")
		vMax       = fs.String("vmax", "", "upper bound of v")
		uSteps     = fs.Int("usteps", def.USteps, "samples along u")
		vSteps     = fs.Int("vsteps", def.VSteps, "samples along v")
		workers    = fs.Int("workers", def.Workers, "concurrent sweep workers")
		epsilon    = fs.Float64("epsilon", def.Epsilon, "degeneracy threshold on |x_u × x_v|")
		outward    = fs.Bool("outward", false, "orient normals away from the origin")
		radius     = fs.Float64("radius", def.MaxRadius, "drop samples whose point lies outside this radius")
		format     = fs.String("format", def.Format, "output format: text or json")
	)
	fs.BoolVar(&interactive, "interactive", false, "prompt for the surface on stdin")
	fs.BoolVar(&list, "list", false, "list catalog surfaces and exit")
	if err = fs.Parse(args); err != nil {
		return cfg, false, false, err
	}

	cfg = def
	if *configPath != "" {
		if cfg, err = gaussmap.LoadConfig(*configPath); err != nil {
			return cfg, false, false, err
		}
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["surface"] {
		cfg.Name, cfg.Surface = *name, gaussmap.Input{}
	}
	text := gaussmap.Input{X: *x, Y: *y, Z: *z, UMin: *uMin, UMax: *uMax, VMin: *vMin, VMax: *vMax}
	if !text.IsZero() {
		cfg.Name, cfg.Surface = "", text
	}
	if set["usteps"] {
		cfg.USteps = *uSteps
	}
	if set["vsteps"] {
		cfg.VSteps = *vSteps
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["epsilon"] {
		cfg.Epsilon = *epsilon
	}
	if set["outward"] {
		cfg.Outward = *outward
	}
	if set["radius"] {
		cfg.MaxRadius = *radius
	}
	if set["format"] {
		cfg.Format = *format
	}
	return cfg, interactive, list, cfg.Validate()
}

var promptFields = []struct {
	label string
	set   func(*gaussmap.Input, string)
}{
	{"x(u, v)", func(in *gaussmap.Input, s string) { in.X = s }},
	{"y(u, v)", func(in *gaussmap.Input, s string) { in.Y = s }},
	{"z(u, v)", func(in *gaussmap.Input, s string) { in.Z = s }},
	{"u_min", func(in *gaussmap.Input, s string) { in.UMin = s }},
	{"u_max", func(in *gaussmap.Input, s string) { in.UMax = s }},
	{"v_min", func(in *gaussmap.Input, s string) { in.VMin = s }},
	{"v_max", func(in *gaussmap.Input, s string) { in.VMax = s }},
}

// prompt reads the seven surface fields, re-asking for any field that does
// not validate, then asks for confirmation. Declining starts over.
func prompt(r *bufio.Reader, w io.Writer) (gaussmap.Input, error) {
	for {
		var in gaussmap.Input
		for _, f := range promptFields {
			for {
				fmt.Fprintf(w, "%s = ", f.label)
				line, err := readLine(r)
				if err != nil {
					return gaussmap.Input{}, err
				}
				f.set(&in, line)
				if msg := fieldProblem(in, f.label); msg != "" {
					fmt.Fprintln(w, msg)
					continue
				}
				break
			}
		}
		s, err := gaussmap.ParseSurface(in)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		for _, warn := range s.Warnings() {
			fmt.Fprintln(w, warn)
		}
		fmt.Fprintf(w, "%s\nProceed? [y/n] ", s)
		answer, err := readLine(r)
		if err != nil {
			return gaussmap.Input{}, err
		}
		if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
			return in, nil
		}
	}
}

// fieldProblem validates the field just entered in isolation.
func fieldProblem(in gaussmap.Input, label string) string {
	var src string
	var vars []string
	switch label {
	case "x(u, v)":
		src, vars = in.X, []string{gaussmap.VarU, gaussmap.VarV}
	case "y(u, v)":
		src, vars = in.Y, []string{gaussmap.VarU, gaussmap.VarV}
	case "z(u, v)":
		src, vars = in.Z, []string{gaussmap.VarU, gaussmap.VarV}
	case "u_min":
		src = in.UMin
	case "u_max":
		src = in.UMax
	case "v_min":
		src = in.VMin
	case "v_max":
		src = in.VMax
	}
	if _, err := gaussmap.Parse(src, vars...); err != nil {
		var pe *gaussmap.ParseError
		if errors.As(err, &pe) {
			return "invalid input: " + pe.Msg
		}
		return err.Error()
	}
	return ""
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func run(ctx context.Context, cfg gaussmap.Config, w io.Writer) error {
	f, err := cfg.Field()
	if err != nil {
		return err
	}
	s := f.Surface()
	for _, warn := range s.Warnings() {
		log.Print(warn)
	}
	samples, err := f.Sweep(ctx, cfg.Grid(s), cfg.Workers)
	if err != nil {
		return err
	}
	samples = gaussmap.WithinRadius(samples, cfg.MaxRadius)
	dep := f.Dependence(gaussmap.DefaultDependenceSamples)

	if cfg.Format == gaussmap.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report{
			X:       s.Coords().String(),
			XU:      f.PartialU().String(),
			XV:      f.PartialV().String(),
			N:       f.Raw().String(),
			URange:  s.URange(),
			VRange:  s.VRange(),
			Dim:     dep.Dim(),
			Samples: samples,
		})
	}

	fmt.Fprintf(w, "x   = %s\n", s.Coords())
	fmt.Fprintf(w, "x_u = %s\n", f.PartialU())
	fmt.Fprintf(w, "x_v = %s\n", f.PartialV())
	fmt.Fprintf(w, "N   = %s\n", f.Raw())
	fmt.Fprintf(w, "u in %s, v in %s\n", s.URange(), s.VRange())
	fmt.Fprintf(w, "Gauss map dimension: %d\n\n", dep.Dim())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "u\tv\tx\ty\tz\tn_x\tn_y\tn_z\t")
	for _, smp := range samples {
		fmt.Fprintf(tw, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			smp.U, smp.V, smp.Point.X, smp.Point.Y, smp.Point.Z,
			smp.Normal.Vec.X, smp.Normal.Vec.Y, smp.Normal.Vec.Z)
	}
	return tw.Flush()
}

type report struct {
	X       string            `json:"x"`
	XU      string            `json:"x_u"`
	XV      string            `json:"x_v"`
	N       string            `json:"n"`
	URange  gaussmap.Range    `json:"u_range"`
	VRange  gaussmap.Range    `json:"v_range"`
	Dim     int               `json:"dim"`
	Samples []gaussmap.Sample `json:"samples"`
}

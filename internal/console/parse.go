package console

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/joeycumines/one-shot-cad/internal/argv"
	"github.com/joeycumines/one-shot-cad/internal/engine"
	"github.com/joeycumines/one-shot-cad/internal/geom"
	"github.com/joeycumines/one-shot-cad/internal/shape"
)

// Action is one parsed console line. It is implemented by Start, Feed,
// Create, Preview, List, Save, Help, Quit and Noop.
type Action interface {
	action()
}

// Start begins the named engine command.
type Start struct {
	Name string
}

// Feed hands an input to the active command, or to the pre-selection when
// no command is active.
type Feed struct {
	Input engine.Input
}

// Create adds a shape. The shape has no ID yet.
type Create struct {
	Shape shape.Shape
}

// Preview asks the active command what it would draw with the cursor at At.
type Preview struct {
	At geom.Point
}

type List struct{}

// Save writes the drawing. An empty Path means the drawing's own file.
type Save struct {
	Path string
}

type Help struct{}

type Quit struct{}

// Noop is a comment line.
type Noop struct{}

func (Start) action()   {}
func (Feed) action()    {}
func (Create) action()  {}
func (Preview) action() {}
func (List) action()    {}
func (Save) action()    {}
func (Help) action()    {}
func (Quit) action()    {}
func (Noop) action()    {}

// ParseContext is what Parse needs to know about the session.
type ParseContext struct {
	// Active is set while an engine command is in progress. Bare words are
	// then options rather than command names.
	Active bool
	// Last is the most recently entered point, the base of relative
	// coordinates. Nil means the origin.
	Last *geom.Point
}

// ErrUsage marks a malformed console line.
var ErrUsage = errors.New("usage")

// Verbs lists the console's own words, with one-line descriptions, for help
// and completion.
var Verbs = []struct{ Name, Usage string }{
	{"line", "line <p1> <p2>"},
	{"circle", "circle <center> <radius>"},
	{"arc", "arc <center> <radius> <start deg> <end deg>"},
	{"rect", "rect <corner> <width> <height> [rotation] | rect <corner> <opposite>"},
	{"ellipse", "ellipse <center> <rx> <ry> [rotation]"},
	{"pline", "pline <p1> <p2> ... [close]"},
	{"pick", "pick <point>  select the object nearest a point"},
	{"select", "select <id>...  select objects by id"},
	{"preview", "preview <point>  show what the active command would draw"},
	{"list", "list the drawing"},
	{"save", "save [path]"},
	{"esc", "cancel the active command"},
	{"help", "show commands"},
	{"quit", "leave"},
}

// Parse turns one console line into an Action.
//
// Points are "x,y", "@dx,dy" (relative to the last point), "d<angle" or
// "@d<angle" (polar, degrees). Numbers and coordinates are expressions, so
// "2*pi" and "sqrt(2)*5,0" work. An empty line is Enter.
func Parse(line string, c ParseContext) (Action, error) {
	toks := argv.Split(line)
	if len(toks) == 0 {
		if strings.TrimSpace(line) != "" {
			return Noop{}, nil
		}
		return Feed{Input: engine.Enter{}}, nil
	}

	verb := strings.ToLower(toks[0])
	args := toks[1:]
	switch verb {
	case "esc", "escape", "cancel":
		return Feed{Input: engine.Escape{}}, nil
	case "quit", "exit":
		return Quit{}, nil
	case "help", "?":
		return Help{}, nil
	case "list":
		return List{}, nil
	case "save":
		if len(args) > 1 {
			return nil, usage("save [path]")
		}
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		return Save{Path: path}, nil
	case "pick":
		if len(args) != 1 {
			return nil, usage("pick <point>")
		}
		p, err := ParsePoint(args[0], c.Last)
		if err != nil {
			return nil, err
		}
		return Feed{Input: engine.Select{Pick: &p}}, nil
	case "select", "sel":
		if len(args) == 0 {
			return nil, usage("select <id>...")
		}
		ids := make([]shape.ID, len(args))
		for i, a := range args {
			ids[i] = shape.ID(a)
		}
		return Feed{Input: engine.Select{IDs: ids}}, nil
	case "preview":
		if len(args) != 1 {
			return nil, usage("preview <point>")
		}
		p, err := ParsePoint(args[0], c.Last)
		if err != nil {
			return nil, err
		}
		return Preview{At: p}, nil
	case "text":
		return Feed{Input: engine.Text{Text: strings.Join(args, " ")}}, nil
	}

	if len(toks) == 1 && looksLikePoint(toks[0]) {
		p, err := ParsePoint(toks[0], c.Last)
		if err != nil {
			return nil, err
		}
		return Feed{Input: engine.Point{At: p}}, nil
	}

	if v, err := EvalNumber(strings.TrimSpace(line)); err == nil {
		return Feed{Input: engine.Value{Number: v}}, nil
	}

	if !c.Active {
		if build, ok := creators[verb]; ok {
			sh, err := build(args, c.Last)
			if err != nil {
				return nil, err
			}
			return Create{Shape: sh}, nil
		}
		if len(args) > 0 {
			return nil, fmt.Errorf("%s takes no arguments; answer its prompts instead", toks[0])
		}
		return Start{Name: toks[0]}, nil
	}

	return Feed{Input: engine.Option{Text: strings.Join(toks, " ")}}, nil
}

func usage(s string) error {
	return fmt.Errorf("%w: %s", ErrUsage, s)
}

func looksLikePoint(s string) bool {
	return strings.HasPrefix(s, "@") || strings.ContainsAny(s, ",<")
}

// ParsePoint reads one point. Relative forms are measured from last, or from
// the origin when last is nil.
func ParsePoint(s string, last *geom.Point) (geom.Point, error) {
	var base geom.Point
	body := s
	if rest, ok := strings.CutPrefix(s, "@"); ok {
		body = rest
		if last != nil {
			base = *last
		}
		if body == "" {
			return base, nil
		}
	}

	if d, a, ok := strings.Cut(body, "<"); ok {
		dist, err := EvalNumber(d)
		if err != nil {
			return geom.Point{}, fmt.Errorf("bad distance in %q: %w", s, err)
		}
		angle, err := EvalNumber(a)
		if err != nil {
			return geom.Point{}, fmt.Errorf("bad angle in %q: %w", s, err)
		}
		return base.Polar(dist, geom.Radians(angle)), nil
	}

	xs, ys, ok := strings.Cut(body, ",")
	if !ok || strings.Contains(ys, ",") {
		return geom.Point{}, fmt.Errorf("bad point %q: want x,y", s)
	}
	x, err := EvalNumber(xs)
	if err != nil {
		return geom.Point{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := EvalNumber(ys)
	if err != nil {
		return geom.Point{}, fmt.Errorf("bad y in %q: %w", s, err)
	}
	return base.Add(geom.Pt(x, y)), nil
}

// exprEnv is what number expressions can see. Trigonometry is in degrees, to
// match angle input.
type exprEnv struct {
	Pi    float64                        `expr:"pi"`
	Sqrt  func(float64) float64          `expr:"sqrt"`
	Sin   func(float64) float64          `expr:"sin"`
	Cos   func(float64) float64          `expr:"cos"`
	Tan   func(float64) float64          `expr:"tan"`
	Atan  func(float64, float64) float64 `expr:"atan"`
	Hypot func(float64, float64) float64 `expr:"hypot"`
}

var numberEnv = exprEnv{
	Pi:    math.Pi,
	Sqrt:  math.Sqrt,
	Sin:   func(d float64) float64 { return math.Sin(geom.Radians(d)) },
	Cos:   func(d float64) float64 { return math.Cos(geom.Radians(d)) },
	Tan:   func(d float64) float64 { return math.Tan(geom.Radians(d)) },
	Atan:  func(y, x float64) float64 { return geom.Degrees(math.Atan2(y, x)) },
	Hypot: math.Hypot,
}

// EvalNumber evaluates a numeric expression such as "3", "-2.5" or
// "sqrt(2)*pi/4".
func EvalNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty number")
	}
	program, err := expr.Compile(s, expr.Env(exprEnv{}), expr.AsFloat64())
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	out, err := expr.Run(program, numberEnv)
	if err != nil {
		return 0, fmt.Errorf("evaluating %q: %w", s, err)
	}
	v, ok := out.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

type creator func(args []string, last *geom.Point) (shape.Shape, error)

var creators = map[string]creator{
	"line":      createLine,
	"circle":    createCircle,
	"arc":       createArc,
	"rect":      createRect,
	"rectangle": createRect,
	"ellipse":   createEllipse,
	"pline":     createPolyline,
	"polyline":  createPolyline,
}

// points parses args as a chain of points, each relative form measured from
// the previous one.
func points(args []string, last *geom.Point) ([]geom.Point, error) {
	out := make([]geom.Point, 0, len(args))
	for _, a := range args {
		p, err := ParsePoint(a, last)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		last = &out[len(out)-1]
	}
	return out, nil
}

func numbers(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := EvalNumber(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func createLine(args []string, last *geom.Point) (shape.Shape, error) {
	if len(args) != 2 {
		return nil, usage("line <p1> <p2>")
	}
	pts, err := points(args, last)
	if err != nil {
		return nil, err
	}
	if pts[0].Near(pts[1], geom.Epsilon) {
		return nil, errors.New("line endpoints coincide")
	}
	return shape.Line{Start: pts[0], End: pts[1]}, nil
}

func createCircle(args []string, last *geom.Point) (shape.Shape, error) {
	if len(args) != 2 {
		return nil, usage("circle <center> <radius>")
	}
	c, err := ParsePoint(args[0], last)
	if err != nil {
		return nil, err
	}
	r, err := EvalNumber(args[1])
	if err != nil {
		return nil, err
	}
	if r <= 0 {
		return nil, errors.New("radius must be positive")
	}
	return shape.Circle{Center: c, Radius: r}, nil
}

func createArc(args []string, last *geom.Point) (shape.Shape, error) {
	if len(args) != 4 {
		return nil, usage("arc <center> <radius> <start deg> <end deg>")
	}
	c, err := ParsePoint(args[0], last)
	if err != nil {
		return nil, err
	}
	n, err := numbers(args[1:])
	if err != nil {
		return nil, err
	}
	if n[0] <= 0 {
		return nil, errors.New("radius must be positive")
	}
	return shape.Arc{Center: c, Radius: n[0], StartAngle: geom.Radians(n[1]), EndAngle: geom.Radians(n[2])}, nil
}

func createRect(args []string, last *geom.Point) (shape.Shape, error) {
	const u = "rect <corner> <width> <height> [rotation] | rect <corner> <opposite>"
	if len(args) < 2 || len(args) > 4 {
		return nil, usage(u)
	}
	if len(args) == 2 {
		pts, err := points(args, last)
		if err != nil {
			return nil, err
		}
		d := pts[1].Sub(pts[0])
		if math.Abs(d.X) < geom.Epsilon || math.Abs(d.Y) < geom.Epsilon {
			return nil, errors.New("rectangle has no area")
		}
		return shape.Rectangle{Corner: pts[0], Width: d.X, Height: d.Y}, nil
	}
	corner, err := ParsePoint(args[0], last)
	if err != nil {
		return nil, err
	}
	n, err := numbers(args[1:])
	if err != nil {
		return nil, err
	}
	r := shape.Rectangle{Corner: corner, Width: n[0], Height: n[1]}
	if len(n) == 3 {
		r.Rotation = geom.Radians(n[2])
	}
	if math.Abs(r.Width) < geom.Epsilon || math.Abs(r.Height) < geom.Epsilon {
		return nil, errors.New("rectangle has no area")
	}
	return r, nil
}

func createEllipse(args []string, last *geom.Point) (shape.Shape, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, usage("ellipse <center> <rx> <ry> [rotation]")
	}
	c, err := ParsePoint(args[0], last)
	if err != nil {
		return nil, err
	}
	n, err := numbers(args[1:])
	if err != nil {
		return nil, err
	}
	if n[0] <= 0 || n[1] <= 0 {
		return nil, errors.New("radii must be positive")
	}
	e := shape.Ellipse{Center: c, RadiusX: n[0], RadiusY: n[1]}
	if len(n) == 3 {
		e.Rotation = geom.Radians(n[2])
	}
	return e, nil
}

func createPolyline(args []string, last *geom.Point) (shape.Shape, error) {
	closed := false
	if n := len(args); n > 0 && strings.EqualFold(args[n-1], "close") {
		closed = true
		args = args[:n-1]
	}
	if len(args) < 2 {
		return nil, usage("pline <p1> <p2> ... [close]")
	}
	pts, err := points(args, last)
	if err != nil {
		return nil, err
	}
	return shape.Polyline{Points: pts, Closed: closed}, nil
}

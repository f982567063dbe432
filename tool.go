package gaussmap

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Limits on sweeps requested through tool calls.
const (
	maxToolSteps   = 200
	toolSweepSteps = 20
)

// HandleToolCall dispatches one tool request. Failures are reported in
// ToolResponse.Error; it never panics on malformed params.
func HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return n, nil
	}
	optNumber := func(key string, def float64) (float64, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getNumber(key)
	}
	optSteps := func(key string) (int, error) {
		n, err := optNumber(key, toolSweepSteps)
		if err != nil {
			return 0, err
		}
		if n < 1 || n > maxToolSteps || n != float64(int(n)) {
			return 0, fmt.Errorf("param %s must be an integer in [1, %d]", key, maxToolSteps)
		}
		return int(n), nil
	}
	getExpr := func(key string) (Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case map[string]interface{}:
			return FromJSON(val)
		case string:
			return Parse(val, VarU, VarV)
		}
		return nil, fmt.Errorf("param %s must be an expression object or string", key)
	}
	// getSurface accepts either {"name": "sphere"} or {"surface": {...Input}}.
	getSurface := func() (*Surface, error) {
		var in Input
		if name, ok := req.Params["name"].(string); ok {
			var err error
			if in, err = Lookup(name); err != nil {
				return nil, err
			}
		} else {
			raw, ok := req.Params["surface"]
			if !ok {
				return nil, fmt.Errorf("missing param: name or surface")
			}
			b, err := json.Marshal(raw)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(b, &in); err != nil {
				return nil, fmt.Errorf("param surface: %w", err)
			}
		}
		return ParseSurface(in)
	}
	getField := func() (*NormalField, error) {
		s, err := getSurface()
		if err != nil {
			return nil, err
		}
		var opts []Option
		if eps, ok := req.Params["epsilon"]; ok {
			e, ok := eps.(float64)
			if !ok || !(e > 0) || math.IsInf(e, 1) {
				return nil, fmt.Errorf("param epsilon must be a positive number")
			}
			opts = append(opts, WithEpsilon(e))
		}
		f, err := NewNormalField(s, opts...)
		if err != nil {
			return nil, err
		}
		if outward, _ := req.Params["outward"].(bool); outward {
			f = f.Outward(NewGrid(s, toolSweepSteps, toolSweepSteps))
		}
		return f, nil
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), LaTeX: LaTeX(e), String: String(e)}
	}
	respondVec := func(v Vec3) ToolResponse {
		return ToolResponse{Result: vecJSON(v), LaTeX: v.LaTeX(), String: v.String()}
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "catalog":
		names := CatalogNames()
		entries := make(map[string]Input, len(names))
		for _, n := range names {
			entries[n], _ = Lookup(n)
		}
		return ToolResponse{Result: entries, String: fmt.Sprint(names)}

	case "parse_surface":
		s, err := getSurface()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{
				"coords":   vecJSON(s.Coords()),
				"u_range":  s.URange(),
				"v_range":  s.VRange(),
				"warnings": s.Warnings(),
			},
			LaTeX:  s.Coords().LaTeX(),
			String: s.String(),
		}

	case "partials":
		f, err := getField()
		if err != nil {
			return fail(err)
		}
		xu, xv := f.PartialU(), f.PartialV()
		return ToolResponse{
			Result: map[string]interface{}{"x_u": vecJSON(xu), "x_v": vecJSON(xv)},
			LaTeX:  xu.LaTeX() + ",\\ " + xv.LaTeX(),
			String: "x_u = " + xu.String() + ", x_v = " + xv.String(),
		}

	case "normal_field":
		f, err := getField()
		if err != nil {
			return fail(err)
		}
		return respondVec(f.Raw())

	case "evaluate":
		f, err := getField()
		if err != nil {
			return fail(err)
		}
		u, err := getNumber("u")
		if err != nil {
			return fail(err)
		}
		v, err := getNumber("v")
		if err != nil {
			return fail(err)
		}
		n := f.Evaluate(u, v)
		return ToolResponse{Result: n, String: fmt.Sprintf("%s (%g, %g, %g)", n.Kind, n.Vec.X, n.Vec.Y, n.Vec.Z)}

	case "sweep":
		f, err := getField()
		if err != nil {
			return fail(err)
		}
		us, err := optSteps("u_steps")
		if err != nil {
			return fail(err)
		}
		vs, err := optSteps("v_steps")
		if err != nil {
			return fail(err)
		}
		samples, err := f.Sweep(ctx, NewGrid(f.Surface(), us, vs), 0)
		if err != nil {
			return fail(err)
		}
		if r, ok := req.Params["radius"].(float64); ok {
			samples = WithinRadius(samples, r)
		}
		return ToolResponse{Result: samples, String: fmt.Sprintf("%d samples", len(samples))}

	case "dependence":
		f, err := getField()
		if err != nil {
			return fail(err)
		}
		d := f.Dependence(DefaultDependenceSamples)
		return ToolResponse{
			Result: map[string]interface{}{"u": d.U, "v": d.V, "dim": d.Dim()},
			String: fmt.Sprintf("Gauss map dimension %d", d.Dim()),
		}

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		return respond(Diff(e, v))

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func MCPToolSpec() string {
	surface := map[string]string{"name": "string", "surface": "object", "epsilon": "number", "outward": "boolean"}
	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range surface {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}
	tools := []map[string]interface{}{
		ts("catalog", "List the named surfaces and their parameterizations", []string{}, map[string]string{}),
		ts("parse_surface", "Validate a surface given by name or by {x,y,z,u_min,u_max,v_min,v_max}", []string{}, surface),
		ts("partials", "Symbolic partial derivatives x_u and x_v", []string{}, surface),
		ts("normal_field", "Symbolic normal field x_u × x_v", []string{}, surface),
		ts("evaluate", "Unit normal at (u, v)", []string{"u", "v"}, with(map[string]string{"u": "number", "v": "number"})),
		ts("sweep", "Evaluate point and unit normal over a grid. Optional: u_steps, v_steps, radius", []string{}, with(map[string]string{"u_steps": "integer", "v_steps": "integer", "radius": "number"})),
		ts("dependence", "Whether the Gauss map varies with u and v, and its dimension", []string{}, surface),
		ts("diff", "Partial derivative of an expression object or string", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

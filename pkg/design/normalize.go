package design

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/dbccheck/pkg/errors"
)

// numericFields maps flat numeric keys onto their nested destination.
var numericFields = map[string]func(d *Design, v float64){
	"ceramics_width":             func(d *Design, v float64) { d.Geometry.Ceramics.Width = v },
	"ceramics_length":            func(d *Design, v float64) { d.Geometry.Ceramics.Length = v },
	"ceramics_thickness":         func(d *Design, v float64) { d.Geometry.Ceramics.Thickness = v },
	"upper_copper_thickness":     func(d *Design, v float64) { d.Geometry.Copper.UpperThickness = v },
	"lower_copper_thickness":     func(d *Design, v float64) { d.Geometry.Copper.LowerThickness = v },
	"fillet_radius":              func(d *Design, v float64) { d.Geometry.FilletRadius = v },
	"igbt_width":                 func(d *Design, v float64) { d.Dies.IGBT.Size.Width = v },
	"igbt_length":                func(d *Design, v float64) { d.Dies.IGBT.Size.Length = v },
	"fwd_width":                  func(d *Design, v float64) { d.Dies.FWD.Size.Width = v },
	"fwd_length":                 func(d *Design, v float64) { d.Dies.FWD.Size.Length = v },
	"cu2cu_margin":               func(d *Design, v float64) { d.Margins.Cu2Cu = v },
	"cu2ceramics_margin":         func(d *Design, v float64) { d.Margins.Cu2Ceramics = v },
	"dbc2dbc_margin":             func(d *Design, v float64) { d.Margins.DBC2DBC = v },
	"substrate_edge_margin":      func(d *Design, v float64) { d.Margins.SubstrateEdge = v },
	"substrate_solder_thickness": func(d *Design, v float64) { d.Process.Solder.Substrate = v },
	"die_solder_thickness":       func(d *Design, v float64) { d.Process.Solder.Die = v },
	"die_thickness":              func(d *Design, v float64) { d.Process.DieThickness = v },
	"igbt_bondwires":             func(d *Design, v float64) { d.Counts.Bondwires.IGBT = int(v) },
	"fwd_bondwires":              func(d *Design, v float64) { d.Counts.Bondwires.FWD = int(v) },
	"dbc_count":                  func(d *Design, v float64) { d.DBCLayout.Count = int(v) },
}

// RequiredFields are the flat keys the precheck cannot run without.
var RequiredFields = []string{
	"ceramics_width",
	"ceramics_length",
	"cu2cu_margin",
	"cu2ceramics_margin",
	"igbt_width",
	"igbt_length",
	"fwd_width",
	"fwd_length",
}

// Normalize converts a flat design document into its nested form.
//
// The flat form is the one produced by design tools and optimizers: scalar
// keys such as ceramics_width next to structured sections (gate_design,
// cutting_design, igbt_positions, fwd_positions, the rotation sections and
// the connection lists). Unknown keys are ignored. Any malformed section is a
// structural error; the returned error carries a pkg/errors code.
func Normalize(flat *Object) (*Design, error) {
	if flat == nil {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "design document is empty")
	}
	for _, key := range RequiredFields {
		if !flat.Has(key) {
			return nil, errors.New(errors.ErrCodeMissingSection, "missing required field %q", key)
		}
	}

	d := &Design{}
	for key, raw := range flat.All() {
		if set, ok := numericFields[key]; ok {
			v, err := number(raw, key)
			if err != nil {
				return nil, err
			}
			set(d, v)
			continue
		}

		var err error
		switch key {
		case "module_id":
			d.TemplateID, _ = scalarString(raw)
		case "gate_design":
			err = normalizeGates(d, raw)
		case "cutting_design":
			err = normalizeCuts(d, raw)
		case "igbt_positions":
			err = normalizeIGBTPositions(d, raw)
		case "igbt_rotations":
			err = normalizeIGBTRotations(d, raw)
		case "fwd_positions":
			d.FWDPositions, err = ratios(raw, key)
		case "fwd_rotations":
			d.FWDRotations, err = numbers(raw, key)
		case "dbc_rotations":
			d.DBCRotations, err = numbers(raw, key)
		case "dbc_connections":
			d.Topology.DBCConnections, d.Topology.DBCEntities, err = connections(raw, key, normalizeEntity)
		case "module_connections":
			d.Topology.ModuleConnections, d.Topology.ModuleEntities, err = connections(raw, key, normalizeModuleEntity)
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// normalizeGates reads gate_design. Each type accepts a single slot
// (start: [x, y], moves: [[dx, dy], ...]) or several slots
// (start: [[x, y], ...], moves: [[[dx, dy], ...], ...]).
func normalizeGates(d *Design, raw any) error {
	types, err := object(raw, "gate_design")
	if err != nil {
		return err
	}
	for typeKey, cfg := range types.All() {
		path := "gate_design." + typeKey
		obj, err := object(cfg, path)
		if err != nil {
			return err
		}

		var gt GateType
		if start, ok := obj.Get("start"); ok {
			if gt.StartPoints, err = ratiosOrRatio(start, path+".start"); err != nil {
				return err
			}
		}
		if moves, ok := obj.Get("moves"); ok {
			if gt.MovesList, err = moveGroups(moves, path+".moves"); err != nil {
				return err
			}
		}
		d.GateDesign.Types.Set(strings.TrimPrefix(typeKey, "type_"), gt)
	}
	return nil
}

func normalizeCuts(d *Design, raw any) error {
	paths, err := object(raw, "cutting_design")
	if err != nil {
		return err
	}
	idx := 0
	for key, pts := range paths.All() {
		path := "cutting_design." + key
		items, err := list(pts, path)
		if err != nil {
			return err
		}
		cut := CutPath{Name: fmt.Sprintf("cut_%d", idx+1)}
		for i, item := range items {
			p, err := cutPoint(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return err
			}
			cut.Points = append(cut.Points, p)
		}
		d.CuttingDesign.Paths = append(d.CuttingDesign.Paths, cut)
		idx++
	}
	return nil
}

func normalizeIGBTPositions(d *Design, raw any) error {
	groups, err := object(raw, "igbt_positions")
	if err != nil {
		return err
	}
	for key, v := range groups.All() {
		pts, err := ratios(v, "igbt_positions."+key)
		if err != nil {
			return err
		}
		d.IGBTPositions.Set(key, pts)
	}
	return nil
}

func normalizeIGBTRotations(d *Design, raw any) error {
	groups, err := object(raw, "igbt_rotations")
	if err != nil {
		return err
	}
	for key, v := range groups.All() {
		rots, err := numbers(v, "igbt_rotations."+key)
		if err != nil {
			return err
		}
		d.IGBTRotations.Set(key, rots)
	}
	return nil
}

// connections reads a list of [source, target] or [source, target, weight]
// entries. Weight defaults to 1. It also returns the sorted set of entities.
func connections(raw any, path string, rename func(string) string) ([]Connection, []string, error) {
	items, err := list(raw, path)
	if err != nil {
		return nil, nil, err
	}
	conns := make([]Connection, 0, len(items))
	seen := make(map[string]bool)
	for i, item := range items {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		fields, err := list(item, ipath)
		if err != nil {
			return nil, nil, err
		}
		if len(fields) != 2 && len(fields) != 3 {
			return nil, nil, errors.New(errors.ErrCodeMalformedFeature,
				"%s: expected [source, target] or [source, target, weight], got %d elements", ipath, len(fields))
		}
		src, ok1 := scalarString(fields[0])
		tgt, ok2 := scalarString(fields[1])
		if !ok1 || !ok2 {
			return nil, nil, errors.New(errors.ErrCodeMalformedFeature, "%s: source and target must be scalars", ipath)
		}
		c := Connection{Source: rename(src), Target: rename(tgt), Value: 1}
		if len(fields) == 3 {
			if c.Value, err = number(fields[2], ipath+"[2]"); err != nil {
				return nil, nil, err
			}
		}
		conns = append(conns, c)
		seen[c.Source] = true
		seen[c.Target] = true
	}
	entities := make([]string, 0, len(seen))
	for e := range seen {
		entities = append(entities, e)
	}
	slices.Sort(entities)
	return conns, entities, nil
}

// normalizeEntity maps design-tool entity names onto topology identities:
// igbt0 -> IGBT_0, fwd_2 -> FWD_2, Zone1 -> Zone_1. Other names are only
// lower-cased.
func normalizeEntity(raw string) string {
	s := strings.ToLower(raw)
	for _, p := range []struct{ from, to string }{
		{"igbt", PrefixIGBT},
		{"fwd", PrefixFWD},
		{"zone", PrefixZone},
	} {
		if rest, ok := strings.CutPrefix(s, p.from); ok {
			return p.to + strings.TrimPrefix(rest, "_")
		}
	}
	return s
}

// normalizeModuleEntity only rewrites zone references; module-level
// entities keep their spelling.
func normalizeModuleEntity(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "zone"); ok {
		return PrefixZone + strings.TrimPrefix(rest, "_")
	}
	return raw
}

// =============================================================================
// Tree accessors
// =============================================================================

func object(v any, path string) (*Object, error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedFeature, "%s: expected an object", path)
	}
	return obj, nil
}

func list(v any, path string) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedFeature, "%s: expected a list", path)
	}
	return items, nil
}

func number(v any, path string) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, errors.New(errors.ErrCodeMalformedFeature, "%s: expected a number, got %T", path, v)
	}
	if err := errors.ValidateFinite(path, f); err != nil {
		return 0, err
	}
	return f, nil
}

func numbers(v any, path string) ([]float64, error) {
	items, err := list(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		if out[i], err = number(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func ratio(v any, path string) (Ratio, error) {
	items, err := list(v, path)
	if err != nil {
		return Ratio{}, err
	}
	if len(items) != 2 {
		return Ratio{}, errors.New(errors.ErrCodeMalformedFeature, "%s: expected [x, y], got %d elements", path, len(items))
	}
	x, err := number(items[0], path+"[0]")
	if err != nil {
		return Ratio{}, err
	}
	y, err := number(items[1], path+"[1]")
	if err != nil {
		return Ratio{}, err
	}
	return Ratio{X: x, Y: y}, nil
}

func ratios(v any, path string) ([]Ratio, error) {
	items, err := list(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]Ratio, len(items))
	for i, item := range items {
		if out[i], err = ratio(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ratiosOrRatio accepts either [x, y] or [[x, y], ...].
func ratiosOrRatio(v any, path string) ([]Ratio, error) {
	items, err := list(v, path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedFeature, "%s: must not be empty", path)
	}
	if _, nested := items[0].([]any); nested {
		return ratios(v, path)
	}
	r, err := ratio(v, path)
	if err != nil {
		return nil, err
	}
	return []Ratio{r}, nil
}

// moveGroups accepts either [[dx, dy], ...] (one slot) or
// [[[dx, dy], ...], ...] (one move list per slot).
func moveGroups(v any, path string) ([][]Ratio, error) {
	items, err := list(v, path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedFeature, "%s: must not be empty", path)
	}
	first, ok := items[0].([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedFeature, "%s: expected a list of moves", path)
	}
	if len(first) > 0 {
		if _, nested := first[0].([]any); nested {
			out := make([][]Ratio, len(items))
			for i, group := range items {
				if out[i], err = ratios(group, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return nil, err
				}
			}
			return out, nil
		}
	}
	single, err := ratios(v, path)
	if err != nil {
		return nil, err
	}
	return [][]Ratio{single}, nil
}

// cutPoint reads a cut coordinate pair where either value may be "MAX" or
// "MIN" instead of a ratio.
func cutPoint(v any, path string) (Ratio, error) {
	items, err := list(v, path)
	if err != nil {
		return Ratio{}, err
	}
	if len(items) != 2 {
		return Ratio{}, errors.New(errors.ErrCodeMalformedFeature, "%s: expected [x, y], got %d elements", path, len(items))
	}
	coord := func(item any, p string) (float64, error) {
		if s, ok := item.(string); ok {
			switch s {
			case "MAX":
				return SentinelMax, nil
			case "MIN":
				return SentinelMin, nil
			}
			return 0, errors.New(errors.ErrCodeMalformedFeature, "%s: unknown marker %q (must be MAX or MIN)", p, s)
		}
		return number(item, p)
	}
	x, err := coord(items[0], path+"[0]")
	if err != nil {
		return Ratio{}, err
	}
	y, err := coord(items[1], path+"[1]")
	if err != nil {
		return Ratio{}, err
	}
	return Ratio{X: x, Y: y}, nil
}

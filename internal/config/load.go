package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// overlay is a partially specified convention table. Nil fields keep the
// base value; StateNames entries are merged key by key.
type overlay struct {
	LabelRanges        []LabelRange     `json:"label_ranges" yaml:"label_ranges"`
	HomingNameMarkers  []string         `json:"homing_name_markers" yaml:"homing_name_markers"`
	Programs           []ProgramPattern `json:"programs" yaml:"programs"`
	ProductCodePattern *string          `json:"product_code_pattern" yaml:"product_code_pattern"`
	IMLNameMarkers     []string         `json:"iml_name_markers" yaml:"iml_name_markers"`
	IMLContentMarkers  []string         `json:"iml_content_markers" yaml:"iml_content_markers"`
	StateNames         map[int]string   `json:"state_names" yaml:"state_names"`
	StateActions       *int             `json:"state_actions" yaml:"state_actions"`
	ActionMarkers      []ActionMarker   `json:"action_markers" yaml:"action_markers"`
	HomingZones        []string         `json:"homing_zones" yaml:"homing_zones"`
	HomingChecks       []int            `json:"homing_check_registers" yaml:"homing_check_registers"`
}

// hclFile is the HCL form of a conventions file:
//
//	label_range "error" {
//	  low  = 500
//	  high = 800
//	}
//	program "subprogram" {
//	  role    = "printing"
//	  pattern = "PRINTEN"
//	}
//	state "150" { name = "PRINT" }
//	action "message" { calls = ["TEKST"] }
type hclFile struct {
	LabelRanges        []*hclLabelRange `hcl:"label_range,block"`
	Programs           []*hclProgram    `hcl:"program,block"`
	States             []*hclState      `hcl:"state,block"`
	Actions            []*hclAction     `hcl:"action,block"`
	HomingNameMarkers  []string         `hcl:"homing_name_markers,optional"`
	ProductCodePattern *string          `hcl:"product_code_pattern,optional"`
	IMLNameMarkers     []string         `hcl:"iml_name_markers,optional"`
	IMLContentMarkers  []string         `hcl:"iml_content_markers,optional"`
	StateActions       *int             `hcl:"state_actions,optional"`
	HomingZones        []string         `hcl:"homing_zones,optional"`
	HomingChecks       []int            `hcl:"homing_check_registers,optional"`
}

type hclLabelRange struct {
	Class string `hcl:"class,label"`
	Low   int    `hcl:"low"`
	High  int    `hcl:"high"`
}

type hclProgram struct {
	Type    string `hcl:"type,label"`
	Role    string `hcl:"role,optional"`
	Pattern string `hcl:"pattern"`
}

type hclState struct {
	Label string `hcl:"label,label"`
	Name  string `hcl:"name"`
}

type hclAction struct {
	Action   string   `hcl:"action,label"`
	Calls    []string `hcl:"calls,optional"`
	Contains []string `hcl:"contains,optional"`
}

// LoadFile reads a conventions file, applies it over Default, and validates
// the result. The format follows the extension: .hcl, .yaml/.yml or .json.
func LoadFile(path string) (*Conventions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading conventions: %w", err)
	}
	return Parse(data, path)
}

// Parse is LoadFile for in-memory content. filename selects the format.
func Parse(data []byte, filename string) (*Conventions, error) {
	var (
		ov  *overlay
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		ov, err = decodeHCL(data, filename)
	case ".yaml", ".yml":
		ov, err = decodeYAML(data, filename)
	case ".json":
		ov, err = decodeJSON(data, filename)
	default:
		return nil, fmt.Errorf("conventions %s: unsupported format %q", filename, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}

	c := Default()
	ov.apply(c)
	if err := c.Compile(); err != nil {
		return nil, fmt.Errorf("conventions %s: %w", filename, err)
	}

	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(c); err != nil {
		return nil, fmt.Errorf("conventions %s: %w", filename, err)
	}
	return c, nil
}

func decodeHCL(data []byte, filename string) (*overlay, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var f hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	ov := &overlay{
		HomingNameMarkers:  f.HomingNameMarkers,
		ProductCodePattern: f.ProductCodePattern,
		IMLNameMarkers:     f.IMLNameMarkers,
		IMLContentMarkers:  f.IMLContentMarkers,
		StateActions:       f.StateActions,
		HomingZones:        f.HomingZones,
		HomingChecks:       f.HomingChecks,
	}
	for _, r := range f.LabelRanges {
		ov.LabelRanges = append(ov.LabelRanges, LabelRange{Class: r.Class, Low: r.Low, High: r.High})
	}
	for _, p := range f.Programs {
		ov.Programs = append(ov.Programs, ProgramPattern{Type: p.Type, Role: p.Role, Pattern: p.Pattern})
	}
	for _, a := range f.Actions {
		ov.ActionMarkers = append(ov.ActionMarkers, ActionMarker{Action: a.Action, Calls: a.Calls, Contains: a.Contains})
	}
	if len(f.States) > 0 {
		ov.StateNames = make(map[int]string, len(f.States))
		for _, s := range f.States {
			n, err := strconv.Atoi(s.Label)
			if err != nil {
				return nil, fmt.Errorf("%s: state %q: label must be a number", filename, s.Label)
			}
			ov.StateNames[n] = s.Name
		}
	}
	return ov, nil
}

func decodeYAML(data []byte, filename string) (*overlay, error) {
	var ov overlay
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ov); err != nil {
		if errors.Is(err, io.EOF) {
			return &ov, nil
		}
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}
	return &ov, nil
}

func decodeJSON(data []byte, filename string) (*overlay, error) {
	var ov overlay
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ov); err != nil {
		return nil, fmt.Errorf("failed to decode JSON file %s: %w", filename, err)
	}
	return &ov, nil
}

func (ov *overlay) apply(c *Conventions) {
	if ov.LabelRanges != nil {
		c.LabelRanges = slices.Clone(ov.LabelRanges)
	}
	if ov.HomingNameMarkers != nil {
		c.HomingNameMarkers = slices.Clone(ov.HomingNameMarkers)
	}
	if ov.Programs != nil {
		c.Programs = slices.Clone(ov.Programs)
	}
	if ov.ProductCodePattern != nil {
		c.ProductCodePattern = *ov.ProductCodePattern
	}
	if ov.IMLNameMarkers != nil {
		c.IMLNameMarkers = slices.Clone(ov.IMLNameMarkers)
	}
	if ov.IMLContentMarkers != nil {
		c.IMLContentMarkers = slices.Clone(ov.IMLContentMarkers)
	}
	for n, name := range ov.StateNames {
		if c.StateNames == nil {
			c.StateNames = make(map[int]string)
		}
		c.StateNames[n] = name
	}
	if ov.StateActions != nil {
		c.StateActions = *ov.StateActions
	}
	if ov.ActionMarkers != nil {
		c.ActionMarkers = slices.Clone(ov.ActionMarkers)
	}
	if ov.HomingZones != nil {
		c.HomingZones = slices.Clone(ov.HomingZones)
	}
	if ov.HomingChecks != nil {
		c.HomingChecks = slices.Clone(ov.HomingChecks)
	}
	c.compiled = false
}

// Package mcp exposes the identification engine as Model Context
// Protocol tools over stdio, so agentic clients can load a causal graph
// and query it interactively.
package mcp

import (
	"context"
	"fmt"
	"sync"

	"causeway/internal/dsep"
	"causeway/internal/graphspec"
	"causeway/internal/identify"
	"causeway/internal/logging"
	"causeway/internal/model"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server and holds the currently loaded graph.
// One graph is active at a time; load_graph replaces it.
type Server struct {
	MCPServer *sdkmcp.Server

	mu   sync.Mutex
	spec *graphspec.Spec
}

// NewServer creates an MCP server with the causal identification tools.
func NewServer() *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "causeway", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "load_graph",
		Description: "Load a causal graph from an inline YAML/JSON spec or a file path. Replaces any previously loaded graph.",
	}, s.handleLoadGraph)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "identify_effect",
		Description: "Run backdoor, instrumental-variable and front-door identification on the loaded graph.",
	}, s.handleIdentifyEffect)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_variable_roles",
		Description: "Derive common causes, valid instruments and effect modifiers for the loaded graph.",
	}, s.handleVariableRoles)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "check_separation",
		Description: "Check whether two variable sets are d-separated given a conditioning set.",
	}, s.handleCheckSeparation)
}

// --- Tool input/output types ---

type loadGraphInput struct {
	Spec string `json:"spec,omitempty" jsonschema:"inline graph spec in YAML or JSON"`
	Path string `json:"path,omitempty" jsonschema:"path to a graph spec file (alternative to spec)"`
}

type loadGraphOutput struct {
	Nodes      []string `json:"nodes"`
	Treatments []string `json:"treatments"`
	Outcomes   []string `json:"outcomes"`
}

type identifyEffectInput struct {
	ProceedWhenUnidentifiable bool   `json:"proceed_when_unidentifiable,omitempty" jsonschema:"continue backdoor search despite unobserved confounders"`
	EstimandType              string `json:"estimand_type,omitempty" jsonschema:"target estimand type (default nonparametric-ate)"`
	MaxAdjustmentSize         int    `json:"max_adjustment_size,omitempty" jsonschema:"bound on backdoor adjustment set size (0 = unbounded)"`
}

type identifyEffectOutput struct {
	Result identify.Summary `json:"result"`
}

type variableRolesInput struct{}

type variableRolesOutput struct {
	CommonCauses    []string `json:"common_causes"`
	Instruments     []string `json:"instruments"`
	EffectModifiers []string `json:"effect_modifiers"`
}

type checkSeparationInput struct {
	X            []string `json:"x" jsonschema:"first variable set"`
	Y            []string `json:"y" jsonschema:"second variable set"`
	Conditioning []string `json:"conditioning,omitempty" jsonschema:"conditioning set"`
}

type checkSeparationOutput struct {
	Separated bool `json:"separated"`
}

// --- Tool handlers ---

func (s *Server) handleLoadGraph(_ context.Context, _ *sdkmcp.CallToolRequest, input loadGraphInput) (*sdkmcp.CallToolResult, loadGraphOutput, error) {
	logger := logging.New("mcp")

	var (
		spec *graphspec.Spec
		err  error
	)
	switch {
	case input.Spec != "" && input.Path != "":
		return nil, loadGraphOutput{}, fmt.Errorf("load_graph: provide spec or path, not both")
	case input.Spec != "":
		spec, err = graphspec.Load([]byte(input.Spec), "")
	case input.Path != "":
		spec, err = graphspec.LoadFromPath(input.Path)
	default:
		return nil, loadGraphOutput{}, fmt.Errorf("load_graph: spec or path required")
	}
	if err != nil {
		return nil, loadGraphOutput{}, err
	}

	// Build once now so structural errors surface at load time.
	m, err := spec.Model(model.WithConfirm(func(string) bool { return true }))
	if err != nil {
		return nil, loadGraphOutput{}, err
	}

	s.mu.Lock()
	s.spec = spec
	s.mu.Unlock()

	g := m.Graph()
	logger.Info("graph loaded", "nodes", len(g.Nodes()),
		"treatments", g.Treatments(), "outcomes", g.Outcomes())
	return nil, loadGraphOutput{
		Nodes:      g.Nodes(),
		Treatments: g.Treatments(),
		Outcomes:   g.Outcomes(),
	}, nil
}

func (s *Server) handleIdentifyEffect(ctx context.Context, _ *sdkmcp.CallToolRequest, input identifyEffectInput) (*sdkmcp.CallToolResult, identifyEffectOutput, error) {
	spec, err := s.loadedSpec()
	if err != nil {
		return nil, identifyEffectOutput{}, err
	}

	opts := []model.Option{
		model.WithConfirm(func(string) bool { return true }),
		model.WithMaxAdjustmentSize(input.MaxAdjustmentSize),
	}
	if input.EstimandType != "" {
		opts = append(opts, model.WithEstimandType(input.EstimandType))
	}
	if input.ProceedWhenUnidentifiable {
		opts = append(opts, model.ProceedWhenUnidentifiable())
	}

	m, err := spec.Model(opts...)
	if err != nil {
		return nil, identifyEffectOutput{}, err
	}
	ie, err := m.IdentifyEffect(ctx)
	if err != nil {
		return nil, identifyEffectOutput{}, err
	}
	return nil, identifyEffectOutput{Result: ie.Summary()}, nil
}

func (s *Server) handleVariableRoles(_ context.Context, _ *sdkmcp.CallToolRequest, _ variableRolesInput) (*sdkmcp.CallToolResult, variableRolesOutput, error) {
	spec, err := s.loadedSpec()
	if err != nil {
		return nil, variableRolesOutput{}, err
	}
	m, err := spec.Model(model.WithConfirm(func(string) bool { return true }))
	if err != nil {
		return nil, variableRolesOutput{}, err
	}

	common, err := m.CommonCauses()
	if err != nil {
		return nil, variableRolesOutput{}, err
	}
	instruments, err := m.Instruments()
	if err != nil {
		return nil, variableRolesOutput{}, err
	}
	modifiers, err := m.EffectModifiers()
	if err != nil {
		return nil, variableRolesOutput{}, err
	}
	return nil, variableRolesOutput{
		CommonCauses:    common,
		Instruments:     instruments,
		EffectModifiers: modifiers,
	}, nil
}

func (s *Server) handleCheckSeparation(_ context.Context, _ *sdkmcp.CallToolRequest, input checkSeparationInput) (*sdkmcp.CallToolResult, checkSeparationOutput, error) {
	spec, err := s.loadedSpec()
	if err != nil {
		return nil, checkSeparationOutput{}, err
	}
	if len(input.X) == 0 || len(input.Y) == 0 {
		return nil, checkSeparationOutput{}, fmt.Errorf("check_separation: x and y required")
	}
	m, err := spec.Model(model.WithConfirm(func(string) bool { return true }))
	if err != nil {
		return nil, checkSeparationOutput{}, err
	}
	separated, err := dsep.Separated(m.Graph(), input.X, input.Y, input.Conditioning)
	if err != nil {
		return nil, checkSeparationOutput{}, err
	}
	return nil, checkSeparationOutput{Separated: separated}, nil
}

func (s *Server) loadedSpec() (*graphspec.Spec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spec == nil {
		return nil, fmt.Errorf("no graph loaded; call load_graph first")
	}
	return s.spec, nil
}

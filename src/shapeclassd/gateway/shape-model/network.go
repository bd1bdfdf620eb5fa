package shapemodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Supported activations.
const (
	ActivationLinear  = "linear"
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
	ActivationSoftmax = "softmax"
)

// Artifact is the on-disk description of a dense feed-forward network.
type Artifact struct {
	Name    string      `yaml:"name"`
	Input   InputShape  `yaml:"input"`
	Classes []string    `yaml:"classes"`
	Layers  []LayerSpec `yaml:"layers"`
}

// InputShape is the height, width and channel count the network expects for a single sample.
type InputShape struct {
	Height   int `yaml:"height"`
	Width    int `yaml:"width"`
	Channels int `yaml:"channels"`
}

// Size returns the number of input values for one sample.
func (s InputShape) Size() int {
	return s.Height * s.Width * s.Channels
}

// LayerSpec is one fully connected layer. Weights are row-major, units x inputs.
type LayerSpec struct {
	Units      int         `yaml:"units"`
	Activation string      `yaml:"activation"`
	Weights    [][]float64 `yaml:"weights"`
	Bias       []float64   `yaml:"bias"`
}

type layer struct {
	weights    *mat.Dense
	bias       *mat.VecDense
	activation string
}

// Network is an immutable, loaded model. It is safe for concurrent use.
type Network struct {
	name    string
	input   InputShape
	classes []string
	layers  []layer
}

// Parse decodes and validates a YAML or JSON artifact.
func Parse(data []byte) (*Network, error) {
	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	return Build(a)
}

// Build validates an artifact and materializes its matrices.
func Build(a Artifact) (*Network, error) {
	if a.Input.Height <= 0 || a.Input.Width <= 0 || a.Input.Channels <= 0 {
		return nil, fmt.Errorf("invalid input shape %dx%dx%d", a.Input.Height, a.Input.Width, a.Input.Channels)
	}
	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("artifact declares no classes")
	}
	if len(a.Layers) == 0 {
		return nil, fmt.Errorf("artifact declares no layers")
	}

	n := &Network{
		name:    a.Name,
		input:   a.Input,
		classes: append([]string(nil), a.Classes...),
		layers:  make([]layer, 0, len(a.Layers)),
	}

	inputs := a.Input.Size()
	for i, spec := range a.Layers {
		l, err := buildLayer(spec, inputs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		n.layers = append(n.layers, l)
		inputs = spec.Units
	}

	if inputs != len(a.Classes) {
		return nil, fmt.Errorf("output layer has %d units for %d classes", inputs, len(a.Classes))
	}
	return n, nil
}

func buildLayer(spec LayerSpec, inputs int) (layer, error) {
	switch spec.Activation {
	case ActivationLinear, ActivationReLU, ActivationSigmoid, ActivationTanh, ActivationSoftmax:
	default:
		return layer{}, fmt.Errorf("unsupported activation %q", spec.Activation)
	}
	if spec.Units <= 0 {
		return layer{}, fmt.Errorf("units must be positive, got %d", spec.Units)
	}
	if len(spec.Weights) != spec.Units {
		return layer{}, fmt.Errorf("weights have %d rows, want %d", len(spec.Weights), spec.Units)
	}
	if len(spec.Bias) != spec.Units {
		return layer{}, fmt.Errorf("bias has %d values, want %d", len(spec.Bias), spec.Units)
	}

	data := make([]float64, 0, spec.Units*inputs)
	for r, row := range spec.Weights {
		if len(row) != inputs {
			return layer{}, fmt.Errorf("weights row %d has %d columns, want %d", r, len(row), inputs)
		}
		data = append(data, row...)
	}
	if !allFinite(data) || !allFinite(spec.Bias) {
		return layer{}, fmt.Errorf("parameters must be finite")
	}

	return layer{
		weights:    mat.NewDense(spec.Units, inputs, data),
		bias:       mat.NewVecDense(spec.Units, append([]float64(nil), spec.Bias...)),
		activation: spec.Activation,
	}, nil
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Name returns the artifact name.
func (n *Network) Name() string { return n.name }

// Input returns the expected input shape.
func (n *Network) Input() InputShape { return n.input }

// Classes returns the class names in output order.
func (n *Network) Classes() []string { return append([]string(nil), n.classes...) }

// Forward runs one sample through the network and returns the output layer activations.
func (n *Network) Forward(x []float64) ([]float64, error) {
	if len(x) != n.input.Size() {
		return nil, fmt.Errorf("input has %d values, want %d", len(x), n.input.Size())
	}

	v := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for _, l := range n.layers {
		out := mat.NewVecDense(l.bias.Len(), nil)
		out.MulVec(l.weights, v)
		out.AddVec(out, l.bias)
		activate(l.activation, out.RawVector().Data)
		v = out
	}

	result := make([]float64, v.Len())
	copy(result, v.RawVector().Data)
	if !allFinite(result) {
		return nil, fmt.Errorf("network produced non-finite output")
	}
	return result, nil
}

func activate(name string, z []float64) {
	switch name {
	case ActivationReLU:
		for i, v := range z {
			z[i] = math.Max(0, v)
		}
	case ActivationSigmoid:
		for i, v := range z {
			z[i] = 1 / (1 + math.Exp(-v))
		}
	case ActivationTanh:
		for i, v := range z {
			z[i] = math.Tanh(v)
		}
	case ActivationSoftmax:
		floats.AddConst(-floats.Max(z), z)
		for i, v := range z {
			z[i] = math.Exp(v)
		}
		floats.Scale(1/floats.Sum(z), z)
	}
}

// Package neural provides feedforward neural network brains for animals.
package neural

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// ErrWeightCount is returned when a flat weight vector does not match the
// parameter count of the requested topology.
var ErrWeightCount = errors.New("neural: weight count does not match topology")

// Activation selects a layer's nonlinearity.
type Activation uint8

const (
	ReLU Activation = iota
	Tanh
)

func (a Activation) apply(v []float32) {
	switch a {
	case ReLU:
		for i, x := range v {
			if x < 0 {
				v[i] = 0
			}
		}
	case Tanh:
		for i, x := range v {
			v[i] = tanh(x)
		}
	}
}

// Layer is a dense layer: out = act(W·in + b).
type Layer struct {
	Weights    blas32.General // Rows = outputs, Cols = inputs
	Biases     []float32
	Activation Activation
}

// Network is a fixed-topology feedforward network. Hidden layers use ReLU
// and the output layer uses tanh so outputs can take either sign.
type Network struct {
	Layers []Layer
}

// ParamCount returns the number of weights and biases for a topology.
func ParamCount(topology []int) int {
	n := 0
	for i := 1; i < len(topology); i++ {
		n += topology[i] * (topology[i-1] + 1)
	}
	return n
}

func validateTopology(topology []int) error {
	if len(topology) < 2 {
		return fmt.Errorf("neural: topology needs at least 2 layers, got %d", len(topology))
	}
	for i, n := range topology {
		if n <= 0 {
			return fmt.Errorf("neural: layer %d has size %d", i, n)
		}
	}
	return nil
}

// newLayers allocates zeroed layers for a topology.
func newLayers(topology []int) []Layer {
	layers := make([]Layer, len(topology)-1)
	for i := range layers {
		in, out := topology[i], topology[i+1]
		act := ReLU
		if i == len(layers)-1 {
			act = Tanh
		}
		layers[i] = Layer{
			Weights: blas32.General{
				Rows:   out,
				Cols:   in,
				Stride: in,
				Data:   make([]float32, out*in),
			},
			Biases:     make([]float32, out),
			Activation: act,
		}
	}
	return layers
}

// NewNetwork creates a network with every weight and bias uniform in [-1, 1].
func NewNetwork(rng *rand.Rand, topology []int) (*Network, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}

	nn := &Network{Layers: newLayers(topology)}
	// Same order as Weights so a seed maps to a stable chromosome.
	for l := range nn.Layers {
		layer := &nn.Layers[l]
		for i := 0; i < layer.Weights.Rows; i++ {
			layer.Biases[i] = rng.Float32()*2 - 1
			row := layer.Weights.Data[i*layer.Weights.Stride : i*layer.Weights.Stride+layer.Weights.Cols]
			for j := range row {
				row[j] = rng.Float32()*2 - 1
			}
		}
	}
	return nn, nil
}

// NetworkFromWeights rebuilds a network from a flat weight vector in the
// order produced by Weights.
func NetworkFromWeights(topology []int, weights []float32) (*Network, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}
	if want := ParamCount(topology); len(weights) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWeightCount, len(weights), want)
	}

	nn := &Network{Layers: newLayers(topology)}
	idx := 0
	for l := range nn.Layers {
		layer := &nn.Layers[l]
		for i := 0; i < layer.Weights.Rows; i++ {
			layer.Biases[i] = weights[idx]
			idx++
			row := layer.Weights.Data[i*layer.Weights.Stride : i*layer.Weights.Stride+layer.Weights.Cols]
			idx += copy(row, weights[idx:idx+len(row)])
		}
	}
	return nn, nil
}

// Weights flattens the network layer by layer, neuron by neuron: each
// neuron contributes its bias followed by its input weights.
func (nn *Network) Weights() []float32 {
	out := make([]float32, 0, nn.ParamCount())
	for _, layer := range nn.Layers {
		for i := 0; i < layer.Weights.Rows; i++ {
			out = append(out, layer.Biases[i])
			out = append(out, layer.Weights.Data[i*layer.Weights.Stride:i*layer.Weights.Stride+layer.Weights.Cols]...)
		}
	}
	return out
}

// ParamCount returns the number of weights and biases in the network.
func (nn *Network) ParamCount() int {
	return ParamCount(nn.Topology())
}

// Topology returns the layer sizes, input first.
func (nn *Network) Topology() []int {
	if len(nn.Layers) == 0 {
		return nil
	}
	topology := make([]int, 0, len(nn.Layers)+1)
	topology = append(topology, nn.Layers[0].Weights.Cols)
	for _, layer := range nn.Layers {
		topology = append(topology, layer.Weights.Rows)
	}
	return topology
}

// Forward computes the network output. len(inputs) must equal the input
// layer size.
func (nn *Network) Forward(inputs []float32) []float32 {
	x := inputs
	for _, layer := range nn.Layers {
		y := make([]float32, layer.Weights.Rows)
		copy(y, layer.Biases)
		blas32.Gemv(blas.NoTrans, 1, layer.Weights,
			blas32.Vector{N: len(x), Inc: 1, Data: x},
			1, blas32.Vector{N: len(y), Inc: 1, Data: y})
		layer.Activation.apply(y)
		x = y
	}
	return x
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

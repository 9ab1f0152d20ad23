package neat

import (
	"fmt"
	"math"
	"strings"
)

// Activation identifies one of the activation functions a node can carry.
// The set is closed; new variants must be added to activationNames and Apply.
type Activation int

const (
	Sigmoid Activation = iota
	ReLU
	Tanh
	Identity
	Gaussian
	Clamped
)

// activationNames maps configuration names to activation variants.
var activationNames = map[string]Activation{
	"sigmoid":  Sigmoid,
	"relu":     ReLU,
	"tanh":     Tanh,
	"identity": Identity,
	"gaussian": Gaussian,
	"clamped":  Clamped,
}

// Activations returns every registered activation in declaration order.
func Activations() []Activation {
	return []Activation{Sigmoid, ReLU, Tanh, Identity, Gaussian, Clamped}
}

// ParseActivation looks an activation up by its configuration name.
func ParseActivation(name string) (Activation, error) {
	if a, ok := activationNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
}

// Apply evaluates the activation function at x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case Sigmoid:
		return 1.0 / (1.0 + math.Exp(-x))
	case ReLU:
		return math.Max(0, x)
	case Tanh:
		return math.Tanh(x)
	case Identity:
		return x
	case Gaussian:
		return math.Exp(-x * x / 2.0)
	case Clamped:
		return clamp(x, -1.0, 1.0)
	default:
		panic(fmt.Sprintf("neat: unknown activation %d", int(a)))
	}
}

// String returns the configuration name of the activation.
func (a Activation) String() string {
	for name, v := range activationNames {
		if v == a {
			return name
		}
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

// Valid reports whether a is a registered variant.
func (a Activation) Valid() bool {
	return a >= Sigmoid && a <= Clamped
}

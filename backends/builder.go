package backends

import (
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

// Op represents the output of an operation during the graph construction.
//
// It is backend specific: ops created by one Builder can only be used with that same Builder.
type Op any

// Builder is the graph construction context of one computation.
//
// Ops are only created after their inputs, so the ops of a Builder always form a DAG.
// Every method returns an error (and no op) if the inputs are invalid for the operation.
type Builder interface {
	// Name of the computation the Builder was created for.
	Name() string

	// OpShape returns the shape of an op. Ops with no value (targets only) return shapes.Invalid().
	OpShape(op Op) (shapes.Shape, error)

	// Constant creates a constant with the given flat values (a slice of a supported Go type) and dimensions.
	Constant(flat any, dimensions ...int) (Op, error)

	// Placeholder creates a named input slot: it must be fed on every run that needs it.
	Placeholder(name string, shape shapes.Shape) (Op, error)

	// Variable creates a persistent variable, whose storage is held by the Session.
	// initialValue is evaluated by the variable's initializer.
	Variable(name string, shape shapes.Shape, initialValue Op) (Variable, error)

	// Random creates a random generator, see OpType.IsRandom. shapeOp must be a constant Int64 vector with the
	// output dimensions.
	Random(opType OpType, shapeOp Op, dtype dtypes.DType) (Op, error)

	// Unary applies one of the unary ops, see OpType.IsUnary.
	Unary(opType OpType, operand Op) (Op, error)

	// Binary applies OpTypeMatMul or one of the elementwise ops, see OpType.IsElementwiseBinary.
	Binary(opType OpType, lhs, rhs Op) (Op, error)

	// Minimize creates one optimizer step that updates variables to reduce loss. loss is reduced by sum
	// if it is not a scalar.
	//
	// It returns the update op, to be used as a target, and the touched variables: the given ones plus any
	// slot variable the optimizer created. All of them need to be initialized before the update is run.
	Minimize(config OptimizerConfig, loss Op, variables []Variable) (update Op, touched []Variable, err error)

	// NewSession binds an execution session to the graph built so far.
	NewSession() (Session, error)
}

// Variable is a persistent slot created by Builder.Variable.
type Variable interface {
	// Name of the variable.
	Name() string

	// Shape of the variable.
	Shape() shapes.Shape

	// Output is the op that reads the variable's current value.
	Output() Op

	// Initializer is the op, to be used as a target, that assigns the initial value.
	Initializer() Op
}

// Feed binds a value to an op for one run.
type Feed struct {
	Op    Op
	Value *tensors.Tensor
}

// Session executes a built graph. It holds the storage of the variables.
type Session interface {
	// Run evaluates the fetches and targets, with the given feeds overriding the value of their ops.
	// It returns one tensor per fetch, in order.
	//
	// Variable updates and initializations are only applied if the whole run succeeds.
	Run(feeds []Feed, fetches []Op, targets []Op) ([]*tensors.Tensor, error)

	// Finalize releases the variable storage. The Session can't be used afterwards.
	Finalize()
}

// OptimizerType enumerates the optimizers a Builder can construct.
type OptimizerType int

//go:generate go tool enumer -type OptimizerType -trimprefix=Optimizer -output=gen_optimizertype_enumer.go builder.go

const (
	OptimizerAdaDelta OptimizerType = iota
	OptimizerGradientDescent
	OptimizerAdam
)

// Names of the hyperparameters accepted in OptimizerConfig.Hyperparameters.
const (
	HyperLearningRate = "learning_rate"
	HyperRho          = "rho"
	HyperEpsilon      = "epsilon"
	HyperBeta1        = "beta1"
	HyperBeta2        = "beta2"
)

// OptimizerConfig configures Builder.Minimize.
type OptimizerConfig struct {
	Type OptimizerType

	// Name is used as a prefix for the slot variables created by the optimizer.
	Name string

	// Hyperparameters maps hyperparameter names to scalar ops with the dtype of the variables.
	// Missing hyperparameters take the optimizer's default.
	Hyperparameters map[string]Op
}

// Package tensors implements Tensor, the host-side multidimensional array used to stage values that are
// fed into, or fetched out of, a running session.
//
// There are various ways to construct a Tensor:
//
//   - FromShape(shape shapes.Shape): a tensor of the given shape filled with zeros.
//
//   - FromScalar[T dtypes.Supported](value T): a scalar (rank 0) tensor.
//
//   - FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int): a tensor with the
//     given dimensions whose row-major values are copied from data. Example:
//
//     t := FromFlatDataAndDimensions([]float32{1, 2, 3, 4}, 2, 2) // [[1, 2], [3, 4]]
//
//   - FromAnyValue(value any): a scalar or a regular multidimensional Go slice, e.g. [][]float32{{1, 2}, {3, 4}}.
//
// A Tensor is treated as immutable once handed to a session: sessions copy fed values before using them and
// return fresh tensors for fetched values.
package tensors

import (
	"fmt"
	"reflect"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/exprgraph/pkg/core/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Tensor holds the shape and the flat, row-major values of a multidimensional array.
type Tensor struct {
	shape shapes.Shape

	// flat is a slice of the Go type of shape.DType, with shape.Size() elements.
	flat any
}

// FromShape returns a tensor of the given shape filled with zeros.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.FromShape(%s): invalid shape", shape)
	}
	goType := shape.DType.GoType()
	if goType == nil {
		exceptions.Panicf("tensors.FromShape(%s): dtype has no Go equivalent", shape)
	}
	size := shape.Size()
	return &Tensor{
		shape: shape.Clone(),
		flat:  reflect.MakeSlice(reflect.SliceOf(goType), size, size).Interface(),
	}
}

// FromScalar returns a scalar tensor holding value. The DType is inferred from T.
func FromScalar[T dtypes.Supported](value T) *Tensor {
	return FromFlatDataAndDimensions([]T{value})
}

// FromFlatDataAndDimensions returns a tensor with the given dimensions, with the values copied from data.
// The DType is inferred from T.
//
// It panics if len(data) doesn't match the product of the dimensions.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) *Tensor {
	dtype := dtypes.FromGenericsType[T]()
	shape := shapes.Make(dtype, dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d",
			shape, len(data), shape.Size())
	}
	t := FromShape(shape)
	if ints, ok := any(data).([]int); ok {
		// Go's int is stored as Int32 or Int64 depending on the platform.
		flatV := reflect.ValueOf(t.flat)
		goType := dtype.GoType()
		for ii, v := range ints {
			flatV.Index(ii).Set(reflect.ValueOf(v).Convert(goType))
		}
		return t
	}
	copy(t.flat.([]T), data)
	return t
}

// FromAnyValue returns a tensor built from a scalar or from a regular multidimensional slice of a
// supported Go type. If value is already a *Tensor it is returned as is.
//
// It panics with an error if the type is unsupported or the slice is irregular.
func FromAnyValue(value any) *Tensor {
	if valueT, ok := value.(*Tensor); ok {
		return valueT
	}
	shape, err := shapeForValue(value)
	if err != nil {
		panic(errors.Wrapf(err, "cannot create tensor from %T", value))
	}
	t := FromShape(shape)
	flatV := reflect.ValueOf(t.flat)
	goType := shape.DType.GoType()
	pos := 0
	var copyRecursively func(v reflect.Value)
	copyRecursively = func(v reflect.Value) {
		if v.Kind() == reflect.Slice {
			for ii := range v.Len() {
				copyRecursively(v.Index(ii))
			}
			return
		}
		flatV.Index(pos).Set(v.Convert(goType))
		pos++
	}
	copyRecursively(reflect.ValueOf(value))
	return t
}

func shapeForValue(value any) (shapes.Shape, error) {
	var dims []int
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return shapes.Invalid(), errors.New("nil value")
	}
	t := v.Type()
	for t.Kind() == reflect.Slice {
		dims = append(dims, v.Len())
		if v.Len() == 0 {
			return shapes.Invalid(), errors.Errorf("empty slices (%s) cannot be converted generically, use FromShape", t)
		}
		v = v.Index(0)
		t = t.Elem()
	}
	dtype := dtypes.FromGoType(t)
	if dtype == dtypes.InvalidDType {
		return shapes.Invalid(), errors.Errorf("type %s not supported", t)
	}
	shape := shapes.Make(dtype, dims...)
	if err := checkRegular(reflect.ValueOf(value), dims); err != nil {
		return shapes.Invalid(), err
	}
	return shape, nil
}

// checkRegular verifies that every sub-slice at depth i has dims[i] elements.
func checkRegular(v reflect.Value, dims []int) error {
	if len(dims) == 0 {
		return nil
	}
	if v.Len() != dims[0] {
		return errors.Errorf("sub-slices have irregular shapes: found length %d where %d was expected", v.Len(), dims[0])
	}
	for ii := range v.Len() {
		if err := checkRegular(v.Index(ii), dims[1:]); err != nil {
			return err
		}
	}
	return nil
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor's elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank of the tensor.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor has rank 0.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size is the number of elements.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory is the number of bytes used by the values.
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Flat returns the underlying flat slice, e.g. a []float32 for a Float32 tensor. It is not a copy.
func (t *Tensor) Flat() any { return t.flat }

// Flat returns the underlying flat slice of the tensor as a []T. It is not a copy: whoever modifies it
// must own the tensor.
//
// It panics if T doesn't match the tensor's DType.
func Flat[T dtypes.Supported](t *Tensor) []T {
	flat, ok := t.flat.([]T)
	if !ok {
		var zero T
		exceptions.Panicf("tensors.Flat[%T]: tensor has dtype %s", zero, t.shape.DType)
	}
	return flat
}

// CopyFlatData returns a copy of the flat values as a []T.
func CopyFlatData[T dtypes.Supported](t *Tensor) []T {
	flat := Flat[T](t)
	return append([]T(nil), flat...)
}

// ToScalar returns the only value of a scalar tensor.
//
// It panics if the tensor is not a scalar or T doesn't match its DType.
func ToScalar[T dtypes.Supported](t *Tensor) T {
	if !t.IsScalar() {
		exceptions.Panicf("tensors.ToScalar: tensor of shape %s is not a scalar", t.shape)
	}
	return Flat[T](t)[0]
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	flatV := reflect.ValueOf(t.flat)
	cloneV := reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
	reflect.Copy(cloneV, flatV)
	return &Tensor{shape: t.shape.Clone(), flat: cloneV.Interface()}
}

// Value returns a copy of the values: the scalar itself for rank 0, a flat slice for rank 1, and
// nested slices (e.g. [][]float32) for higher ranks.
func (t *Tensor) Value() any {
	flatV := reflect.ValueOf(t.flat)
	if t.IsScalar() {
		return flatV.Index(0).Interface()
	}
	copyV := reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
	reflect.Copy(copyV, flatV)
	return nestSlices(copyV, t.shape.Dimensions).Interface()
}

// nestSlices returns a multidimensional slice pointing to the data in flatV.
func nestSlices(flatV reflect.Value, dimensions []int) reflect.Value {
	if len(dimensions) <= 1 {
		return flatV
	}
	resultT := flatV.Type()
	for range dimensions[1:] {
		resultT = reflect.SliceOf(resultT)
	}
	stride := flatV.Len() / max(dimensions[0], 1)
	result := reflect.MakeSlice(resultT, dimensions[0], dimensions[0])
	for ii := range dimensions[0] {
		sub := flatV.Slice(ii*stride, (ii+1)*stride)
		result.Index(ii).Set(nestSlices(sub, dimensions[1:]))
	}
	return result
}

// Equal returns whether both tensors have the same shape and values.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	v0, v1 := reflect.ValueOf(t.flat), reflect.ValueOf(other.flat)
	for ii := range v0.Len() {
		if !v0.Index(ii).Equal(v1.Index(ii)) {
			return false
		}
	}
	return true
}

// InDelta returns whether both tensors have the same shape and |t - other| <= delta for every element.
func (t *Tensor) InDelta(other *Tensor, delta float64) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	f0, f1 := t.Float64s(), other.Float64s()
	for ii := range f0 {
		diff := f0[ii] - f1[ii]
		if diff > delta || diff < -delta {
			return false
		}
	}
	return true
}

// Float64s returns the values converted to float64. Booleans convert to 0 or 1.
func (t *Tensor) Float64s() []float64 {
	flatV := reflect.ValueOf(t.flat)
	result := make([]float64, flatV.Len())
	switch flat := t.flat.(type) {
	case []float16.Float16:
		for ii, v := range flat {
			result[ii] = float64(v.Float32())
		}
		return result
	case []bool:
		for ii, v := range flat {
			if v {
				result[ii] = 1
			}
		}
		return result
	}
	float64T := reflect.TypeOf(float64(0))
	for ii := range result {
		result[ii] = flatV.Index(ii).Convert(float64T).Float()
	}
	return result
}

// MaxStringSize is the largest number of elements String prints. Larger tensors print a summary.
var MaxStringSize = 64

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	if t == nil {
		return "<nil tensor>"
	}
	if t.Size() > MaxStringSize {
		return fmt.Sprintf("%s: %s elements, %s", t.shape, humanize.Comma(int64(t.Size())),
			humanize.Bytes(uint64(t.Memory())))
	}
	return fmt.Sprintf("%s: %v", t.shape, t.Value())
}


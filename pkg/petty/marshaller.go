package petty

import (
	"fmt"
	"reflect"

	"github.com/pettylang/petty/internal/evaluator"
)

// Marshaller handles conversion between Go and petty values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var objectType = reflect.TypeOf((*evaluator.Object)(nil)).Elem()

// ToValue converts a Go value to a petty Object.
func (m *Marshaller) ToValue(val any) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NULL, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return evaluator.NewInteger(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return evaluator.NewInteger(int64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return evaluator.NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		return m.sliceToList(v)
	case reflect.Func:
		return m.funcToBuiltin("<go func>", v), nil
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		// Pointer -> HostObject (reference)
		return &HostObject{Value: val, marshaller: m}, nil
	default:
		return nil, fmt.Errorf("unsupported Go type %s", v.Type())
	}
}

func (m *Marshaller) sliceToList(v reflect.Value) (*evaluator.List, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return evaluator.NewList(elements), nil
}

// FromValue converts a petty Object to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (any, error) {
	if obj == nil {
		return nil, nil
	}
	if targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Integer:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
				reflect.Float32, reflect.Float64:
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			}
		}
		return int(o.Value), nil
	case *evaluator.Float:
		if targetType != nil && targetType.Kind() == reflect.Float32 {
			return float32(o.Value), nil
		}
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Null:
		return nil, nil
	case *evaluator.Option:
		if !o.Present {
			return nil, nil
		}
		return m.FromValue(o.Value, targetType)
	case *evaluator.List:
		return m.listToSlice(o, targetType)
	case *HostObject:
		return o.Value, nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
}

func (m *Marshaller) listToSlice(l *evaluator.List, targetType reflect.Type) (any, error) {
	elemType := reflect.TypeOf((*any)(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	elements := l.Snapshot()
	out := reflect.MakeSlice(reflect.SliceOf(elemType), len(elements), len(elements))
	for i, el := range elements {
		val, err := m.FromValue(el, elemType)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(elemType) {
			return nil, fmt.Errorf("element %d: cannot use %s as %s", i, rv.Type(), elemType)
		}
		out.Index(i).Set(rv)
	}
	return out.Interface(), nil
}

// funcToBuiltin wraps a Go function. Arguments and results go through the
// marshaller; a trailing error result becomes a runtime error.
func (m *Marshaller) funcToBuiltin(name string, fn reflect.Value) *evaluator.Builtin {
	arity := fn.Type().NumIn()
	if fn.Type().IsVariadic() {
		arity = -1
	}
	return &evaluator.Builtin{
		Name:  name,
		Arity: arity,
		Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
			res, err := m.callHost(fn, args)
			if err != nil {
				return &evaluator.Error{Kind: evaluator.RuntimeFailure, Message: fmt.Sprintf("%s: %v", name, err)}
			}
			return res
		},
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// convertible is reflect's ConvertibleTo without the integer to string
// conversion, which would turn 65 into "A".
func convertible(from, to reflect.Type) bool {
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	return from.ConvertibleTo(to)
}

func (m *Marshaller) callHost(fn reflect.Value, args []evaluator.Object) (evaluator.Object, error) {
	fnType := fn.Type()
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()
	if isVariadic && len(args) < numIn-1 {
		return nil, fmt.Errorf("expected at least %d arguments, got %d", numIn-1, len(args))
	}

	goArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		var targetType reflect.Type
		if isVariadic && i >= numIn-1 {
			targetType = fnType.In(numIn - 1).Elem()
		} else {
			targetType = fnType.In(i)
		}

		val, err := m.FromValue(arg, targetType)
		if err != nil {
			return nil, fmt.Errorf("argument %d conversion failed: %w", i, err)
		}
		if val == nil {
			goArgs[i] = reflect.Zero(targetType)
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(targetType) {
			if !convertible(rv.Type(), targetType) {
				return nil, fmt.Errorf("argument %d: cannot use %s as %s", i, rv.Type(), targetType)
			}
			rv = rv.Convert(targetType)
		}
		goArgs[i] = rv
	}

	results := fn.Call(goArgs)
	if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
		if err, _ := results[n-1].Interface().(error); err != nil {
			return nil, err
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return evaluator.NULL, nil
	case 1:
		return m.ToValue(results[0].Interface())
	}
	elements := make([]evaluator.Object, len(results))
	for i, res := range results {
		val, err := m.ToValue(res.Interface())
		if err != nil {
			return nil, err
		}
		elements[i] = val
	}
	return evaluator.NewList(elements), nil
}

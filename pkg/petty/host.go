package petty

import (
	"fmt"
	"reflect"

	"github.com/pettylang/petty/internal/evaluator"
)

const HOST_OBJ = "Host"

// HostObject exposes a Go pointer to scripts. Exported fields read through
// the marshaller and exported methods are callable as members.
type HostObject struct {
	Value      any
	marshaller *Marshaller
}

func (h *HostObject) Type() evaluator.ObjectType { return HOST_OBJ }
func (h *HostObject) Inspect() string {
	return fmt.Sprintf("<host %T>", h.Value)
}

func (h *HostObject) GetItem(e *evaluator.Evaluator, key string) evaluator.Object {
	v := reflect.ValueOf(h.Value)

	if method := v.MethodByName(key); method.IsValid() {
		return h.boundMethod(key, method)
	}

	if elem := v.Elem(); elem.Kind() == reflect.Struct {
		if field, ok := elem.Type().FieldByName(key); ok && field.IsExported() {
			obj, err := h.marshaller.ToValue(elem.FieldByIndex(field.Index).Interface())
			if err != nil {
				return &evaluator.Error{
					Kind:    evaluator.CapabilityMismatch,
					Message: fmt.Sprintf("field %s: %v", key, err),
				}
			}
			return obj
		}
	}
	return evaluator.DefaultItem(h, key)
}

func (h *HostObject) Call(e *evaluator.Evaluator, args []evaluator.Object) evaluator.Object {
	return &evaluator.Error{
		Kind:    evaluator.CapabilityMismatch,
		Message: fmt.Sprintf("'%s' object is not callable", HOST_OBJ),
	}
}

// boundMethod drops the receiver the evaluator passes for member calls;
// method already carries it.
func (h *HostObject) boundMethod(name string, method reflect.Value) *evaluator.Builtin {
	inner := h.marshaller.funcToBuiltin(fmt.Sprintf("%T.%s", h.Value, name), method)
	arity := inner.Arity
	if arity >= 0 {
		arity++
	}
	return &evaluator.Builtin{
		Name:  inner.Name,
		Arity: arity,
		Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
			if len(args) == 0 {
				return &evaluator.Error{
					Kind:    evaluator.ArityMismatch,
					Message: fmt.Sprintf("%s() called without a receiver", inner.Name),
				}
			}
			return inner.Fn(e, args[1:]...)
		},
	}
}

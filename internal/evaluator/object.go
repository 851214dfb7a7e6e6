package evaluator

type ObjectType string

const (
	INTEGER_OBJ         = "Int"
	FLOAT_OBJ           = "Float"
	STRING_OBJ          = "Str"
	BOOLEAN_OBJ         = "Bool"
	NULL_OBJ            = "Null"
	LIST_OBJ            = "List"
	LIST_ITER_OBJ       = "ListIterator"
	STRING_ITER_OBJ     = "StrIterator"
	RANGE_OBJ           = "Range"
	RANGE_ITER_OBJ      = "RangeIterator"
	OPTION_OBJ          = "Option"
	FUNCTION_OBJ        = "Function"
	BUILTIN_OBJ         = "Builtin"
	CLASS_OBJ           = "Class"
	INSTANCE_OBJ        = "Instance"
	MODULE_OBJ          = "Module"
	THREAD_OBJ          = "ThreadHandle"
	THREAD_POOL_OBJ     = "ThreadPool"
	MUTEX_OBJ           = "Mutex"
	FILE_OBJ            = "File"
	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

// Object is the capability protocol every runtime value implements.
//
// GetItem resolves an attribute, method or dunder hook by name. Methods come
// back unbound: the caller passes the receiver as the first argument.
// Call invokes the value. Both return an *Error for anything unsupported.
type Object interface {
	Type() ObjectType
	Inspect() string
	GetItem(e *Evaluator, key string) Object
	Call(e *Evaluator, args []Object) Object
}

// typeName is the user-facing type of obj; instances report their class.
func typeName(obj Object) string {
	if inst, ok := obj.(*Instance); ok {
		return inst.Class.Name
	}
	if obj == nil {
		return "nil"
	}
	return string(obj.Type())
}

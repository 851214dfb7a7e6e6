package config

const SourceFileExt = ".petty"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".petty", ".pt"}

// Version is reported by `petty -version`.
const Version = "0.3.0"

// SmallIntCacheSize is the number of canonical integers (0..SmallIntCacheSize-1)
// allocated once at startup.
const SmallIntCacheSize = 256

// Built-in function names
const (
	PrintFuncName    = "print"
	ReprFuncName     = "repr"
	StrFuncName      = "str"
	LenFuncName      = "len"
	RangeFuncName    = "range"
	SomeFuncName     = "Some"
	NoneName         = "None"
	SpawnFuncName    = "spawn"
	SleepFuncName    = "sleep"
	MutexFuncName    = "Mutex"
	StdModuleName    = "std"
	ThreadPoolName   = "ThreadPool"
	SelfParamName    = "self"
	MainFrameName    = "<main>"
	DefaultFileLabel = "<stdin>"
)

// MaxSequenceLen caps the length of a string or list built by repetition.
const MaxSequenceLen = 1 << 26

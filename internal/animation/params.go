package animation

import "hash/fnv"

type Param int

const (
	IsWalking Param = iota
	IsRunning
	IsJumping
	IsFalling
	JumpIndex

	paramCount
)

// Handle is the hashed form of a parameter name, as animators key them.
type Handle uint32

var paramNames = [paramCount]string{
	IsWalking: "IsWalking",
	IsRunning: "IsRunning",
	IsJumping: "IsJumping",
	IsFalling: "IsFalling",
	JumpIndex: "JumpIndex",
}

var paramHandles = func() [paramCount]Handle {
	var out [paramCount]Handle
	for p, name := range paramNames {
		out[p] = HashName(name)
	}
	return out
}()

func (p Param) Name() string {
	if p < 0 || p >= paramCount {
		return "unknown"
	}
	return paramNames[p]
}

func (p Param) Handle() Handle {
	if p < 0 || p >= paramCount {
		return 0
	}
	return paramHandles[p]
}

func (p Param) String() string {
	return p.Name()
}

// Params lists every parameter in declaration order.
func Params() []Param {
	out := make([]Param, 0, paramCount)
	for p := Param(0); p < paramCount; p++ {
		out = append(out, p)
	}
	return out
}

// Lookup resolves a handle back to its parameter.
func Lookup(h Handle) (Param, bool) {
	for p, candidate := range paramHandles {
		if candidate == h {
			return Param(p), true
		}
	}
	return 0, false
}

// HashName is the 32-bit FNV-1a hash of name.
func HashName(name string) Handle {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return Handle(h.Sum32())
}

package cil

// Local is one local variable slot of a method body.
type Local struct {
	Index int
	Type  TypeSig
	Name  string
}

// HandlerKind discriminates exception handler regions.
type HandlerKind int

const (
	HandlerCatch HandlerKind = iota
	HandlerFilter
	HandlerFinally
	HandlerFault
)

func (k HandlerKind) String() string {
	switch k {
	case HandlerCatch:
		return "catch"
	case HandlerFilter:
		return "filter"
	case HandlerFinally:
		return "finally"
	case HandlerFault:
		return "fault"
	default:
		return "handler(?)"
	}
}

// ExceptionHandler is one protected region of a method body. The boundary
// fields point at instructions of the owning body; TryEnd and HandlerEnd are
// exclusive bounds and may be nil when the region runs to the end of the
// body. FilterStart is set only for filter handlers, CatchType only for catch
// handlers.
type ExceptionHandler struct {
	Kind HandlerKind

	TryStart     *Instruction
	TryEnd       *Instruction
	HandlerStart *Instruction
	HandlerEnd   *Instruction
	FilterStart  *Instruction

	CatchType TypeDefOrRef
}

// MethodBody is the executable part of a method: an ordered instruction
// stream, local variables, exception-handler regions, and execution bounds.
type MethodBody struct {
	MaxStack   int
	InitLocals bool

	Locals            []*Local
	Instructions      []*Instruction
	ExceptionHandlers []*ExceptionHandler
}

// AddLocal appends a local variable of the given type and returns it.
func (b *MethodBody) AddLocal(typ TypeSig, name string) *Local {
	l := &Local{Index: len(b.Locals), Type: typ, Name: name}
	b.Locals = append(b.Locals, l)
	return l
}

// Add appends an instruction and returns it.
func (b *MethodBody) Add(ins *Instruction) *Instruction {
	b.Instructions = append(b.Instructions, ins)
	return ins
}

// ExpandShortBranches rewrites every short-form opcode in the body to its
// canonical long form, so later insertion of instructions cannot push a
// branch displacement out of short range.
func (b *MethodBody) ExpandShortBranches() {
	for _, ins := range b.Instructions {
		if long, ok := ins.OpCode.Expand(); ok {
			ins.OpCode = long
		}
	}
}

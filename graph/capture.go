package graph

// CaptureAnalyzer computes the variables a nested sequence reads from its
// enclosing scope. Hosts with their own analysis (for example one driven by
// the VM's variable tracking) implement this interface; ScanFreeVariables is
// used otherwise.
type CaptureAnalyzer interface {
	FreeVariables(seq Sequence) []string
}

// CaptureFunc adapts a function to CaptureAnalyzer.
type CaptureFunc func(seq Sequence) []string

// FreeVariables implements CaptureAnalyzer.
func (f CaptureFunc) FreeVariables(seq Sequence) []string { return f(seq) }

// DefaultCaptures is the CaptureAnalyzer backed by ScanFreeVariables.
var DefaultCaptures CaptureAnalyzer = CaptureFunc(ScanFreeVariables)

// ScanFreeVariables returns the names seq reads before defining them, in
// first-use order. Names defined inside nested sequences do not leak out of
// them; called wires are scanned with an empty scope since their bodies
// cannot see the caller's definitions except through captures.
func ScanFreeVariables(seq Sequence) []string {
	s := &captureScanner{
		seen:  make(map[string]struct{}),
		wires: make(map[*Wire]struct{}),
	}
	s.scan(seq, make(map[string]struct{}))
	return s.free
}

type captureScanner struct {
	free  []string
	seen  map[string]struct{}
	wires map[*Wire]struct{}
}

func (s *captureScanner) read(name string, defined map[string]struct{}) {
	if name == "" {
		return
	}
	if _, ok := defined[name]; ok {
		return
	}
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.free = append(s.free, name)
}

func (s *captureScanner) readOperand(o Operand, defined map[string]struct{}) {
	if o.Value == nil && !o.Global {
		s.read(o.Name, defined)
	}
}

func (s *captureScanner) nested(seq Sequence, defined map[string]struct{}) {
	inner := make(map[string]struct{}, len(defined))
	for k := range defined {
		inner[k] = struct{}{}
	}
	s.scan(seq, inner)
}

//nolint:gocyclo,cyclop // one case per opcode kind
func (s *captureScanner) scan(seq Sequence, defined map[string]struct{}) {
	for _, op := range seq {
		switch o := op.(type) {
		case Get:
			if !o.Global {
				s.read(o.Name, defined)
			}
		case Set:
			if !o.Global {
				defined[o.Name] = struct{}{}
			}
		case Ref:
			if !o.Global {
				defined[o.Name] = struct{}{}
			}
		case Update:
			if !o.Global {
				s.read(o.Name, defined)
			}
		case Push:
			defined[o.Name] = struct{}{}
		case Binary:
			s.readOperand(o.Operand, defined)
		case Lerp:
			s.readOperand(o.First, defined)
			s.readOperand(o.Second, defined)
		case Make:
			for _, src := range o.Sources {
				s.readOperand(src, defined)
			}
		case Sub:
			s.nested(o.Body, defined)
		case If:
			s.nested(o.Condition, defined)
			s.nested(o.Then, defined)
			s.nested(o.Else, defined)
		case When:
			s.nested(o.Condition, defined)
			s.nested(o.Action, defined)
		case ForRange:
			s.nested(o.Body, defined)
		case Call:
			if o.Wire == nil {
				continue
			}
			if _, visiting := s.wires[o.Wire]; visiting {
				continue
			}
			s.wires[o.Wire] = struct{}{}
			inner := &captureScanner{seen: make(map[string]struct{}), wires: s.wires}
			inner.scan(o.Wire.Body, make(map[string]struct{}))
			for _, name := range inner.free {
				s.read(name, defined)
			}
			delete(s.wires, o.Wire)
		}
	}
}

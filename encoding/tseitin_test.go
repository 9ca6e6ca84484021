package encoding

import (
	"testing"

	"github.com/hartshard/cdclsat/internal/sat"
)

// checkGate enumerates every input assignment of an n-input gate and checks
// the asserted output literal against a reference boolean function.
func checkGate(t *testing.T, name string, n int, build func(enc *Encoder, in []Literal) (Literal, error), ref func(bits []bool) bool) {
	t.Helper()
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s)
	in := make([]Literal, n)
	for i := range in {
		in[i] = s.NewVariable(true)
	}
	out, err := build(enc, in)
	if err != nil {
		t.Fatalf("%s: build: %v", name, err)
	}

	for p := 0; p < (1 << n); p++ {
		bits := make([]bool, n)
		assumptions := make([]sat.Literal, n)
		for i, l := range in {
			bits[i] = p&(1<<i) != 0
			if bits[i] {
				assumptions[i] = l
			} else {
				assumptions[i] = l.Opposite()
			}
		}
		if got := s.Solve(assumptions, 0); got != sat.True {
			t.Fatalf("%s: pattern %v: Solve() = %s, want True", name, bits, got)
		}
		want := ref(bits)
		if got := s.ReadModel(out) == sat.True; got != want {
			t.Errorf("%s: pattern %v: out = %v, want %v", name, bits, got, want)
		}
	}
}

func TestAndGate(t *testing.T) {
	checkGate(t, "AndGate", 3,
		func(enc *Encoder, in []Literal) (Literal, error) { return enc.AndGate(in...) },
		func(bits []bool) bool { return bits[0] && bits[1] && bits[2] })
}

func TestOrGate(t *testing.T) {
	checkGate(t, "OrGate", 3,
		func(enc *Encoder, in []Literal) (Literal, error) { return enc.OrGate(in...) },
		func(bits []bool) bool { return bits[0] || bits[1] || bits[2] })
}

func TestXorGate(t *testing.T) {
	checkGate(t, "XorGate", 3,
		func(enc *Encoder, in []Literal) (Literal, error) { return enc.XorGate(in...) },
		func(bits []bool) bool {
			parity := 0
			for _, b := range bits {
				if b {
					parity++
				}
			}
			return parity%2 == 1
		})
}

func TestXnorGate(t *testing.T) {
	checkGate(t, "XnorGate", 2,
		func(enc *Encoder, in []Literal) (Literal, error) { return enc.XnorGate(in...) },
		func(bits []bool) bool { return bits[0] == bits[1] })
}

func TestNandGate(t *testing.T) {
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s)
	a := s.NewVariable(true)
	b := s.NewVariable(true)
	out := enc.NewVariable()
	if err := enc.AddNandGate(out, a, b); err != nil {
		t.Fatalf("AddNandGate: %v", err)
	}
	for _, va := range []bool{false, true} {
		for _, vb := range []bool{false, true} {
			assumptions := []sat.Literal{litFor(a, va), litFor(b, vb)}
			if got := s.Solve(assumptions, 0); got != sat.True {
				t.Fatalf("a=%v b=%v: Solve() = %s, want True", va, vb, got)
			}
			want := !(va && vb)
			if got := s.ReadModel(out) == sat.True; got != want {
				t.Errorf("a=%v b=%v: out = %v, want %v", va, vb, got, want)
			}
		}
	}
}

func litFor(l Literal, v bool) Literal {
	if v {
		return l
	}
	return l.Opposite()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// TestAddFullAdder checks the sum/carry-out literals of a full adder
// against plain integer addition across all eight input combinations.
func TestAddFullAdder(t *testing.T) {
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s)
	a := s.NewVariable(true)
	b := s.NewVariable(true)
	cin := s.NewVariable(true)
	sum := enc.NewVariable()
	cout := enc.NewVariable()
	if err := enc.AddFullAdder(a, b, cin, sum, cout); err != nil {
		t.Fatalf("AddFullAdder: %v", err)
	}

	for p := 0; p < 8; p++ {
		va := p&1 != 0
		vb := p&2 != 0
		vc := p&4 != 0
		assumptions := []sat.Literal{litFor(a, va), litFor(b, vb), litFor(cin, vc)}
		if got := s.Solve(assumptions, 0); got != sat.True {
			t.Fatalf("a=%v b=%v cin=%v: Solve() = %s, want True", va, vb, vc, got)
		}
		total := boolToInt(va) + boolToInt(vb) + boolToInt(vc)
		wantSum := total%2 == 1
		wantCout := total >= 2
		if got := s.ReadModel(sum) == sat.True; got != wantSum {
			t.Errorf("a=%v b=%v cin=%v: sum = %v, want %v", va, vb, vc, got, wantSum)
		}
		if got := s.ReadModel(cout) == sat.True; got != wantCout {
			t.Errorf("a=%v b=%v cin=%v: cout = %v, want %v", va, vb, vc, got, wantCout)
		}
	}
}

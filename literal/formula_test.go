package literal

import (
	"errors"
	"testing"
)

func atom(text string) *Formula {
	return NewAtom(text, false)
}

func TestFormula_Simplification(t *testing.T) {
	tests := []struct {
		name string
		f    *Formula
		want string
	}{
		{"always and x", And(Always(), atom("abc")), `"abc"`},
		{"never and x", And(Never(), atom("abc")), "NEVER"},
		{"always or x", Or(Always(), atom("abc")), "ALWAYS"},
		{"never or x", Or(Never(), atom("abc")), `"abc"`},
		{"empty and", And(), "ALWAYS"},
		{"empty or", Or(), "NEVER"},
		{"single and", And(atom("abc")), `"abc"`},
		{"never absorbs and", And(atom("abc"), atom("def"), Never()), "NEVER"},
		{"always absorbs or", Or(atom("abc"), Always(), atom("def")), "ALWAYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormula_Flattening(t *testing.T) {
	and := And(atom("abc"), And(atom("def"), atom("ghi")))
	if and.Op != OpAnd || len(and.Sub) != 3 {
		t.Fatalf("nested AND not flattened: %s", and)
	}
	for _, sub := range and.Sub {
		if sub.Op != OpAtom {
			t.Errorf("unexpected child %s", sub)
		}
	}

	or := Or(Or(atom("abc"), atom("def")), Or(atom("ghi"), atom("jkl")))
	if or.Op != OpOr || len(or.Sub) != 4 {
		t.Fatalf("nested OR not flattened: %s", or)
	}

	mixed := And(Or(atom("abc"), atom("def")), atom("ghi"))
	if mixed.Op != OpAnd || len(mixed.Sub) != 2 {
		t.Fatalf("unexpected shape: %s", mixed)
	}
}

func TestFormula_String(t *testing.T) {
	f := And(atom("abc"), Or(NewAtom("X", true), atom("y")))
	want := `"abc" (i"x"|"y")`
	if got := f.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestFormula_Prune(t *testing.T) {
	tests := []struct {
		name   string
		f      *Formula
		minLen int
		want   string
	}{
		{"short atom", atom("ab"), 3, "ALWAYS"},
		{"long atom", atom("abc"), 3, `"abc"`},
		{"and keeps survivors", And(atom("ab"), atom("xyz")), 3, `"xyz"`},
		{"and loses all", And(atom("ab"), atom("xy")), 3, "ALWAYS"},
		{"or with short branch", Or(atom("ab"), atom("xyz")), 3, "ALWAYS"},
		{"or all long", Or(atom("abc"), atom("xyz")), 3, `("abc"|"xyz")`},
		{"and drops or", And(Or(atom("ab"), atom("xyz")), atom("uvw")), 3, `"uvw"`},
		{"or keeps pruned and", Or(And(atom("ab"), atom("xyz")), atom("uvw")), 3, `("uvw"|"xyz")`},
		{"or flattens pruned and", Or(And(atom("ab"), Or(atom("xyz"), atom("uvw"))), atom("rst")), 3, `("rst"|"xyz"|"uvw")`},
		{"never stays never", Never(), 3, "NEVER"},
		{"always stays always", Always(), 3, "ALWAYS"},
		{"runes not bytes", NewAtom("héé", true), 3, `i"héé"`},
		{"min len one", And(atom("a"), atom("b")), 1, `"a" "b"`},
		{"replacement char", atom("\uFFFDabc"), 3, "ALWAYS"},
		{"replacement char in and", And(atom("x\uFFFDyz"), atom("uvw")), 1, `"uvw"`},
		{"replacement char in or", Or(NewAtom("\uFFFDxyz", true), atom("uvw")), 1, "ALWAYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Prune(tt.minLen).String(); got != tt.want {
				t.Errorf("Prune(%d) = %s, want %s", tt.minLen, got, tt.want)
			}
		})
	}
}

// mapInterner assigns sequential ids per (text, caseSensitive) pair.
type mapInterner struct {
	ids   map[string]int
	texts []string
	fold  []bool
	err   error
}

func newMapInterner() *mapInterner {
	return &mapInterner{ids: make(map[string]int)}
}

func (m *mapInterner) AddOrGet(text string, caseSensitive bool) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	key := text
	if !caseSensitive {
		key = "\x00" + text
	}
	if id, ok := m.ids[key]; ok {
		return id, nil
	}
	id := len(m.texts)
	m.ids[key] = id
	m.texts = append(m.texts, text)
	m.fold = append(m.fold, !caseSensitive)
	return id, nil
}

func TestFormula_BindAndEval(t *testing.T) {
	// ("abc" | "def") "ghi"
	f := And(Or(atom("abc"), atom("def")), atom("ghi"))
	in := newMapInterner()
	if err := f.Bind(in); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(in.texts) != 3 {
		t.Fatalf("expected 3 atoms, got %v", in.texts)
	}

	id := func(text string) int { return in.ids[text] }
	tests := []struct {
		present []string
		want    bool
	}{
		{nil, false},
		{[]string{"abc"}, false},
		{[]string{"ghi"}, false},
		{[]string{"abc", "ghi"}, true},
		{[]string{"def", "ghi"}, true},
		{[]string{"abc", "def", "ghi"}, true},
	}
	for _, tt := range tests {
		found := make(map[int]bool)
		for _, p := range tt.present {
			found[id(p)] = true
		}
		got := f.Eval(func(a int) bool { return found[a] })
		if got != tt.want {
			t.Errorf("Eval(%v) = %v, want %v", tt.present, got, tt.want)
		}
	}

	if !Always().Eval(func(int) bool { return false }) {
		t.Error("ALWAYS must evaluate to true")
	}
	if Never().Eval(func(int) bool { return true }) {
		t.Error("NEVER must evaluate to false")
	}
}

func TestFormula_BindDedup(t *testing.T) {
	f := Or(atom("abc"), And(atom("abc"), NewAtom("ABC", true)))
	in := newMapInterner()
	if err := f.Bind(in); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(in.texts) != 2 {
		t.Errorf("expected 2 distinct atoms (case policies differ), got %v", in.texts)
	}
}

func TestFormula_BindError(t *testing.T) {
	sentinel := errors.New("sealed")
	in := newMapInterner()
	in.err = sentinel
	if err := atom("abc").Bind(in); !errors.Is(err, sentinel) {
		t.Errorf("Bind error = %v, want %v", err, sentinel)
	}
}

func TestOp_String(t *testing.T) {
	for op, want := range map[Op]string{
		OpAlways: "Always",
		OpNever:  "Never",
		OpAtom:   "Atom",
		OpAnd:    "And",
		OpOr:     "Or",
		Op(42):   "Op(42)",
	} {
		if got := op.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", op, got, want)
		}
	}
}

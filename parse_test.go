package sapling

import (
	"strings"
	"testing"
	"unsafe"
)

func mustParse(t *testing.T, text string) *Value {
	t.Helper()
	v, err := Parse(NewArena(0), text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return v
}

func assertSyntaxError(t *testing.T, err error, input string) {
	t.Helper()
	if err == nil {
		t.Fatalf("input %q: expected syntax error, got none", input)
	}
	if !IsKind(err, ErrSyntax) {
		t.Errorf("input %q: error %v is not a syntax error", input, err)
	}
}

// --- StripSpace ---

func TestStripSpace(t *testing.T) {
	got := StripSpace(" {\n\ttype : empty ,\r\n name: A B }  ")
	if want := "{type:empty,name:AB}"; got != want {
		t.Errorf("StripSpace = %q, want %q", got, want)
	}
}

// --- Primitives ---

func TestParsePrimitive(t *testing.T) {
	v := mustParse(t, "  12.5 ")
	if v.Kind != KindPrimitive {
		t.Fatalf("Kind = %v, want primitive", v.Kind)
	}
	if v.Text != "12.5" {
		t.Errorf("Text = %q, want %q", v.Text, "12.5")
	}
}

func TestParsePrimitiveWithDelimiterFails(t *testing.T) {
	for _, in := range []string{"a:b", "1,2", "a}", "]", "{a}", "[a:b]"} {
		_, err := Parse(NewArena(0), in)
		assertSyntaxError(t, err, in)
	}
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(NewArena(0), " \n\t ")
	assertSyntaxError(t, err, "whitespace")
}

// --- Arrays ---

func TestParseArray(t *testing.T) {
	v := mustParse(t, "[1, 2, 3]")
	if v.Kind != KindArray {
		t.Fatalf("Kind = %v, want array", v.Kind)
	}
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}
	for i, want := range []string{"1", "2", "3"} {
		if v.Items[i].Text != want {
			t.Errorf("Items[%d] = %q, want %q", i, v.Items[i].Text, want)
		}
	}
}

func TestParseEmptyArray(t *testing.T) {
	v := mustParse(t, "[ ]")
	if v.Kind != KindArray || v.Len() != 0 {
		t.Errorf("got %v with %d entries, want empty array", v.Kind, v.Len())
	}
}

func TestParseNestedArrays(t *testing.T) {
	v := mustParse(t, "[[1, [2]], [], {a: [3, 4]}]")
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}
	if v.Items[0].Kind != KindArray || v.Items[0].Items[1].Items[0].Text != "2" {
		t.Errorf("Items[0] = %s, want [1, [2]]", MarshalValue(v.Items[0]))
	}
	if v.Items[1].Len() != 0 {
		t.Errorf("Items[1] should be empty")
	}
	if got := v.Items[2].Get("a"); got == nil || got.Len() != 2 {
		t.Errorf("Items[2].a = %v, want 2 entries", got)
	}
}

func TestParseEmptyArrayEntryFails(t *testing.T) {
	for _, in := range []string{"[1,,2]", "[,1]", "[1,]", "[,]"} {
		_, err := Parse(NewArena(0), in)
		assertSyntaxError(t, err, in)
	}
}

// --- Objects ---

func TestParseObject(t *testing.T) {
	v := mustParse(t, "{type: empty, id: 3, pos: [1, 2, 3], child: {a: b}}")
	if v.Kind != KindObject {
		t.Fatalf("Kind = %v, want object", v.Kind)
	}
	names := make([]string, 0, v.Len())
	for _, f := range v.Fields {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "type,id,pos,child" {
		t.Errorf("field order = %s, want type,id,pos,child", got)
	}
	if v.Get("id").Text != "3" {
		t.Errorf("id = %q, want 3", v.Get("id").Text)
	}
	if v.Get("child").Get("a").Text != "b" {
		t.Errorf("child.a = %q, want b", v.Get("child").Get("a").Text)
	}
	if v.Get("missing") != nil {
		t.Error("Get of missing field should be nil")
	}
}

func TestParseEmptyObject(t *testing.T) {
	v := mustParse(t, "{}")
	if v.Kind != KindObject || v.Len() != 0 {
		t.Errorf("got %v with %d entries, want empty object", v.Kind, v.Len())
	}
}

func TestParseDuplicateNamesKeepFirst(t *testing.T) {
	v := mustParse(t, "{a: 1, a: 2}")
	if v.Len() != 2 {
		t.Fatalf("Len = %d, want 2", v.Len())
	}
	if v.Get("a").Text != "1" {
		t.Errorf("Get(a) = %q, want first match 1", v.Get("a").Text)
	}
}

func TestParseObjectColonErrors(t *testing.T) {
	cases := map[string]string{
		"no colon":        "{a}",
		"two colons":      "{a: b: c}",
		"empty name":      "{: b}",
		"empty value":     "{a: }",
		"empty attribute": "{a: 1,, b: 2}",
		"trailing comma":  "{a: 1,}",
		"leading comma":   "{, a: 1}",
		"brace in name":   "{[a]: 1}",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(NewArena(0), in)
			assertSyntaxError(t, err, in)
		})
	}
}

func TestParseColonInsideNestedValue(t *testing.T) {
	v := mustParse(t, "{a: {b: c}}")
	if v.Get("a").Get("b").Text != "c" {
		t.Errorf("a.b = %q, want c", v.Get("a").Get("b").Text)
	}
}

// --- Balance ---

func TestParseUnbalancedFails(t *testing.T) {
	inputs := []string{
		"{type: empty",
		"{a: [1, 2}",
		"{a: 1}}",
		"[1, 2]]",
		"}",
		"]",
		"{a: {b: c}",
		"[{]}",
		"{a: [}]}",
		"{a: 1} {b: 2}",
		"[1][2]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(NewArena(0), in)
			assertSyntaxError(t, err, in)
		})
	}
}

func TestParseErrorCarriesOffset(t *testing.T) {
	_, err := Parse(NewArena(0), "{a: 1}}")
	if err == nil || !strings.Contains(err.Error(), "offset 5") {
		t.Errorf("err = %v, want mention of offset 5", err)
	}
}

// --- Documents ---

func TestParseDocumentRequiresObject(t *testing.T) {
	for _, in := range []string{"[1]", "abc", "", "  ", "{a: 1"} {
		_, err := ParseDocument(NewArena(0), in)
		assertSyntaxError(t, err, in)
	}
}

func TestParseDocumentFailsBeforeRecursing(t *testing.T) {
	a := NewArena(0)
	_, err := ParseDocument(a, "[{a: 1}]")
	assertSyntaxError(t, err, "[{a: 1}]")
	if a.Allocations() != 0 {
		t.Errorf("Allocations = %d, want 0", a.Allocations())
	}
}

func TestParseDocument(t *testing.T) {
	v, err := ParseDocument(NewArena(0), "{type: empty, children: []}")
	if err != nil {
		t.Fatal(err)
	}
	if v.Get("children").Kind != KindArray {
		t.Errorf("children kind = %v, want array", v.Get("children").Kind)
	}
}

// --- Capacity ---

func TestParseArenaExhaustion(t *testing.T) {
	a := NewArena(2 * int(unsafe.Sizeof(Value{})))
	_, err := Parse(a, "[1, 2, 3]")
	if !IsKind(err, ErrCapacity) {
		t.Errorf("err = %v, want capacity error", err)
	}
}

// --- Value helpers ---

func TestValueEqual(t *testing.T) {
	a := mustParse(t, "{a: [1, 2], b: {c: d}}")
	b := mustParse(t, "{ a : [ 1 , 2 ] , b : { c : d } }")
	c := mustParse(t, "{a: [1, 2], b: {c: e}}")
	d := mustParse(t, "{b: {c: d}, a: [1, 2]}")
	if !a.Equal(b) {
		t.Error("a should equal b")
	}
	if a.Equal(c) {
		t.Error("a should not equal c")
	}
	if a.Equal(d) {
		t.Error("field order is significant")
	}
	if a.Equal(nil) {
		t.Error("a should not equal nil")
	}
}

func TestMarshalValueReparses(t *testing.T) {
	in := "{a: [1, 2], b: {c: d, e: []}, f: {}, g: [{h: 1}, [2]]}"
	v := mustParse(t, in)
	out := MarshalValue(v)
	again := mustParse(t, out)
	if !v.Equal(again) {
		t.Errorf("MarshalValue output does not reparse to the same tree:\n%s", out)
	}
}

func TestKindString(t *testing.T) {
	if KindObject.String() != "object" || KindArray.String() != "array" || KindPrimitive.String() != "primitive" {
		t.Error("unexpected Kind names")
	}
}

package design

import (
	"encoding/json"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOrderedMapKeepsInsertionOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 4) // overwrite keeps position

	want := []string{"zeta", "alpha", "mid"}
	if got := m.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if v, _ := m.Get("zeta"); v != 4 {
		t.Errorf("Get(zeta) = %d, want 4", v)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestOrderedMapZeroValue(t *testing.T) {
	var m OrderedMap[string]
	if m.Len() != 0 || m.Has("x") {
		t.Error("zero value should be empty")
	}
	m.Set("x", "y")
	if !m.Has("x") {
		t.Error("zero value should accept Set")
	}
}

func TestOrderedMapJSON(t *testing.T) {
	var m OrderedMap[[]float64]
	if err := json.Unmarshal([]byte(`{"type_9": [1], "type_1": [2, 3], "type_5": []}`), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []string{"type_9", "type_1", "type_5"}
	if got := m.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"type_9":[1],"type_1":[2,3],"type_5":[]}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestOrderedMapYAML(t *testing.T) {
	var m OrderedMap[int]
	src := "b: 1\na: 2\nc: 3\n"
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []string{"b", "a", "c"}
	if got := m.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestOrderedMapAllStopsEarly(t *testing.T) {
	m := NewOrderedMap[int]()
	for i, k := range []string{"a", "b", "c"} {
		m.Set(k, i)
	}
	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	if !slices.Equal(seen, []string{"a", "b"}) {
		t.Errorf("iteration = %v", seen)
	}
}

package engine

import "fmt"

// Alphabet maps between string labels and integer IDs.
type Alphabet struct {
	ToID  map[string]int `json:"to_id"`
	ToStr []string       `json:"to_str"`
}

// NewAlphabet creates an alphabet from distinct labels, in order.
func NewAlphabet(labels ...string) (*Alphabet, error) {
	a := &Alphabet{
		ToID:  make(map[string]int, len(labels)),
		ToStr: make([]string, 0, len(labels)),
	}
	for _, s := range labels {
		if _, ok := a.ToID[s]; ok {
			return nil, fmt.Errorf("duplicate label %q", s)
		}
		a.Add(s)
	}
	return a, nil
}

// Add adds a string to the alphabet if not already present, returns its ID.
func (a *Alphabet) Add(s string) int {
	if id, ok := a.ToID[s]; ok {
		return id
	}
	id := len(a.ToStr)
	a.ToID[s] = id
	a.ToStr = append(a.ToStr, s)
	return id
}

// Get returns the ID for a string, or -1 if not found.
func (a *Alphabet) Get(s string) int {
	if id, ok := a.ToID[s]; ok {
		return id
	}
	return -1
}

// Label returns the string for an ID.
func (a *Alphabet) Label(id int) string {
	if id < 0 || id >= len(a.ToStr) {
		return ""
	}
	return a.ToStr[id]
}

// Labels returns a copy of the labels in ID order.
func (a *Alphabet) Labels() []string {
	out := make([]string, len(a.ToStr))
	copy(out, a.ToStr)
	return out
}

// Size returns the number of entries.
func (a *Alphabet) Size() int {
	return len(a.ToStr)
}

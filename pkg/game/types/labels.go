package types

import (
	"encoding/json"
	"sort"
)

// LabelSet is a copy-on-write set of labels. The zero value is empty and
// ready to use; With never mutates the receiver.
type LabelSet struct {
	labels map[string]struct{}
}

func NewLabelSet(labels ...string) LabelSet {
	s := LabelSet{labels: make(map[string]struct{}, len(labels))}
	for _, label := range labels {
		s.labels[label] = struct{}{}
	}
	return s
}

func (s LabelSet) Has(label string) bool {
	_, ok := s.labels[label]
	return ok
}

func (s LabelSet) Len() int {
	return len(s.labels)
}

// With returns a new set containing the receiver's labels and label.
func (s LabelSet) With(label string) LabelSet {
	out := LabelSet{labels: make(map[string]struct{}, len(s.labels)+1)}
	for l := range s.labels {
		out.labels[l] = struct{}{}
	}
	out.labels[label] = struct{}{}
	return out
}

// Slice returns the labels sorted.
func (s LabelSet) Slice() []string {
	out := make([]string, 0, len(s.labels))
	for l := range s.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (s LabelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *LabelSet) UnmarshalJSON(b []byte) error {
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return err
	}
	*s = NewLabelSet(labels...)
	return nil
}

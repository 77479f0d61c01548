package mapping

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"typeforge/annotation"
	"typeforge/descriptor"
)

// CurrentVersion is the only schema version understood.
const CurrentVersion = "1"

// File is one descriptor file.
type File struct {
	Version   string             `json:"version" yaml:"version"`
	Package   string             `json:"package,omitempty" yaml:"package,omitempty"`
	Classes   []descriptor.Class `json:"classes,omitempty" yaml:"classes,omitempty"`
	Overrides []Override         `json:"overrides,omitempty" yaml:"overrides,omitempty"`

	// Path is the file the descriptor was loaded from, if any.
	Path string `json:"-" yaml:"-"`
}

// Override augments a registered type.
type Override struct {
	// Type is the qualified name of the original type.
	Type string `json:"type" yaml:"type"`
	// Replace optionally names the type the injected type is layered on.
	Replace             string                  `json:"replace,omitempty" yaml:"replace,omitempty"`
	Properties          []descriptor.Property   `json:"properties,omitempty" yaml:"properties,omitempty"`
	PropertyAnnotations PropertyAnnotationsList `json:"propertyAnnotations,omitempty" yaml:"propertyAnnotations,omitempty"`
	Annotations         AnnotationList          `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// AnnotationList is a list of annotations written as a single string or
// a sequence.
type AnnotationList []annotation.Annotation

// UnmarshalYAML accepts a scalar or a sequence.
func (l *AnnotationList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var a annotation.Annotation

		if err := node.Decode(&a); err != nil {
			return err
		}

		*l = AnnotationList{a}

		return nil

	case yaml.SequenceNode:
		var list []annotation.Annotation

		if err := node.Decode(&list); err != nil {
			return err
		}

		*l = list

		return nil

	default:
		return fmt.Errorf("line %d: expected annotation or list of annotations", node.Line)
	}
}

// MarshalYAML writes a single annotation as a scalar.
func (l AnnotationList) MarshalYAML() (any, error) {
	if len(l) == 1 {
		return l[0], nil
	}

	return []annotation.Annotation(l), nil
}

// UnmarshalJSON accepts a string or an array.
func (l *AnnotationList) UnmarshalJSON(data []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(data)), `"`) {
		var single annotation.Annotation
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}

		*l = AnnotationList{single}

		return nil
	}

	var list []annotation.Annotation
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}

	*l = list

	return nil
}

// Strings renders every annotation.
func (l AnnotationList) Strings() []string {
	out := make([]string, len(l))
	for i, a := range l {
		out[i] = a.String()
	}

	return out
}

// PropertyAnnotations are the annotations added to one property.
type PropertyAnnotations struct {
	Name        string         `json:"name" yaml:"name"`
	Annotations AnnotationList `json:"annotations" yaml:"annotations"`
}

// PropertyAnnotationsList keeps the order properties are written in. In
// YAML it is a mapping from property name to annotations; JSON also
// accepts an array of {"name", "annotations"} objects, and sorts the keys
// of an object.
type PropertyAnnotationsList []PropertyAnnotations

// UnmarshalYAML reads a mapping in document order.
func (l *PropertyAnnotationsList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []PropertyAnnotations

		if err := node.Decode(&list); err != nil {
			return err
		}

		*l = list

		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of property names to annotations", node.Line)
	}

	out := make(PropertyAnnotationsList, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string

		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid property name: %w", err)
		}

		var anns AnnotationList

		if err := node.Content[i+1].Decode(&anns); err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}

		out = out.add(name, anns)
	}

	*l = out

	return nil
}

// MarshalYAML writes a mapping node in list order.
func (l PropertyAnnotationsList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, g := range l {
		value := &yaml.Node{}
		if err := value.Encode(g.Annotations); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: g.Name}, value)
	}

	return node, nil
}

// UnmarshalJSON accepts an array of groups or an object.
func (l *PropertyAnnotationsList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "[") {
		var list []PropertyAnnotations

		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}

		*l = list

		return nil
	}

	var byName map[string]AnnotationList
	if err := json.Unmarshal(data, &byName); err != nil {
		return err
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}

	slices.Sort(names)

	out := make(PropertyAnnotationsList, 0, len(names))
	for _, name := range names {
		out = out.add(name, byName[name])
	}

	*l = out

	return nil
}

func (l PropertyAnnotationsList) add(name string, anns AnnotationList) PropertyAnnotationsList {
	for i := range l {
		if l[i].Name == name {
			l[i].Annotations = append(l[i].Annotations, anns...)
			return l
		}
	}

	return append(l, PropertyAnnotations{Name: name, Annotations: anns})
}

// Lookup returns the annotations of name.
func (l PropertyAnnotationsList) Lookup(name string) (AnnotationList, bool) {
	for _, g := range l {
		if g.Name == name {
			return g.Annotations, true
		}
	}

	return nil, false
}

var ErrUnsupportedVersion = errors.New("unsupported descriptor file version")

// pre_processor.go implements the WGSL shader pre-processor. It replaces @snowglobe:
// annotations with the struct sources embedded by the model and material packages, or
// with generated @group/@binding declarations, and records the declarations it emitted.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/snowglobe/engine/model"
	"github.com/Carmen-Shannon/snowglobe/engine/renderer/material"
)

// registryEntry pairs a WGSL struct source string with the WGSL type name emitted in
// generated declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by include annotations.
	Source string

	// Type is the WGSL type name emitted in group declarations. Empty for sources that hold
	// several structs and can only be included.
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates group annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing annotations.
type PreProcessor interface {
	// Process replaces every annotation in source with its WGSL output.
	// The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if any annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the group annotations collected by the most recent Process call,
	// in source order.
	//
	// Returns:
	//   - []Annotation: the declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with every shared GPU struct registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgVertex:           {Source: model.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgParticleInstance: {Source: model.GPUParticleInstanceSource},
			AnnotationArgDrawUniform:      {Source: material.GPUDrawUniformSource, Type: "DrawUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgAddressUniform: "var<uniform>",
			annotationArgAddressRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown include argument %q", i+1, a.Args[0])
			}
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			entry := p.structRegistry[a.Args[2]]
			if entry.Type == "" {
				return "", fmt.Errorf("line %d: %q cannot be bound as a single variable", i+1, a.Args[2])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

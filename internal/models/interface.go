package models

import "sort"

// Event is a named event exposed by an interface
type Event struct {
	Name          string
	SenderType    *TypeName
	ArgsType      *TypeName
	Documentation *Documentation
}

// RTInterface is one generated class or interface
type RTInterface struct {
	Type          *TypeName
	BaseType      *TypeName
	Methods       []*Method
	GetSets       []*GetSet
	Events        map[string]*Event
	Documentation *Documentation
	Factories     []*RTFactory
	Templated     bool
	DefaultAlias  bool
	PropertyClass *PropertyClass
}

// NewRTInterface creates an interface declaration
func NewRTInterface(typeName, baseType *TypeName) *RTInterface {
	return &RTInterface{
		Type:     typeName,
		BaseType: baseType,
		Events:   make(map[string]*Event),
	}
}

// Name returns the native type name
func (i *RTInterface) Name() string {
	return i.Type.UnmappedName
}

// AddMethod appends a method
func (i *RTInterface) AddMethod(m *Method) {
	i.Methods = append(i.Methods, m)
}

// AddEvent registers an event, replacing one with the same name
func (i *RTInterface) AddEvent(e *Event) {
	if i.Events == nil {
		i.Events = make(map[string]*Event)
	}
	i.Events[e.Name] = e
}

// SortedEvents returns events ordered by name so output is deterministic
func (i *RTInterface) SortedEvents() []*Event {
	names := make([]string, 0, len(i.Events))
	for name := range i.Events {
		names = append(names, name)
	}
	sort.Strings(names)

	events := make([]*Event, 0, len(names))
	for _, name := range names {
		events = append(events, i.Events[name])
	}
	return events
}

// MethodByName returns the first method with the given name
func (i *RTInterface) MethodByName(name string) *Method {
	for _, m := range i.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// DeriveProperties pairs the interface's getters and setters
func (i *RTInterface) DeriveProperties() {
	i.GetSets = DerivePropertiesFromMethods(i.Methods)
}

// PlainMethods returns the methods the generator does not render as part of
// a property. A setter whose getter the generator ignores is plain again.
func (i *RTInterface) PlainMethods(generator string) []*Method {
	plain := make([]*Method, 0, len(i.Methods))
	for _, m := range i.Methods {
		if !m.GetSet.RenderedFor(generator) {
			plain = append(plain, m)
		}
	}
	return plain
}

package models

// EnumValue is one enumerator
type EnumValue struct {
	Name          string
	Value         string // empty when implicit
	Documentation *Documentation
}

// Enumeration is an enum declaration
type Enumeration struct {
	Name          string
	Values        []EnumValue
	Documentation *Documentation
}

// RTFile is the model of one source unit
type RTFile struct {
	Name         string
	Namespace    Namespace
	Interfaces   []*RTInterface
	Enums        []*Enumeration
	Methods      []*Method // global functions
	Aliases      map[string]*TypeName
	Factories    []*RTFactory
	LeadingDocs  []string
	TrailingDocs []string
	Attributes   *AttributeInfo
}

// NewRTFile creates an empty file model with fresh attribute state
func NewRTFile(name, namespace string) *RTFile {
	return &RTFile{
		Name:       name,
		Namespace:  ParseNamespace(namespace),
		Aliases:    make(map[string]*TypeName),
		Attributes: NewAttributeInfo(),
	}
}

// InterfaceByName finds an interface by its native name
func (f *RTFile) InterfaceByName(name string) *RTInterface {
	for _, iface := range f.Interfaces {
		if iface.Name() == name {
			return iface
		}
	}
	return nil
}

// FactoriesFor returns the file-level factories that build the given interface
func (f *RTFile) FactoriesFor(interfaceName string) []*RTFactory {
	var out []*RTFactory
	for _, factory := range f.Factories {
		if factory.InterfaceName == interfaceName {
			out = append(out, factory)
		}
	}
	return out
}

// Finalize derives properties for every interface and attaches file-level
// factories to the interfaces they construct. Called once after parsing.
func (f *RTFile) Finalize() {
	for _, iface := range f.Interfaces {
		iface.DeriveProperties()
		for _, factory := range f.FactoriesFor(iface.Name()) {
			if !containsFactory(iface.Factories, factory) {
				iface.Factories = append(iface.Factories, factory)
			}
		}
	}
}

func containsFactory(list []*RTFactory, f *RTFactory) bool {
	for _, existing := range list {
		if existing == f {
			return true
		}
	}
	return false
}

package models

import "sort"

// Properties maps property names to their string values
type Properties map[string]string

// ConfigType is the content of one configuration file, e.g. yarn-site
type ConfigType struct {
	Properties         Properties                   `json:"properties" yaml:"properties"`
	PropertyAttributes map[string]map[string]string `json:"property_attributes,omitempty" yaml:"property_attributes,omitempty"`
}

// Bundle maps config type names to their content
type Bundle map[string]*ConfigType

// PropertyWrite is a single recommended value
type PropertyWrite struct {
	ConfigType string `json:"config_type" yaml:"config_type"`
	Name       string `json:"name" yaml:"name"`
	Value      string `json:"value" yaml:"value"`
}

// AttributeWrite is a single recommended property attribute, e.g. "maximum"
type AttributeWrite struct {
	ConfigType string `json:"config_type" yaml:"config_type"`
	Name       string `json:"name" yaml:"name"`
	Attribute  string `json:"attribute" yaml:"attribute"`
	Value      string `json:"value" yaml:"value"`
}

// Has reports whether the config type exists in the bundle
func (b Bundle) Has(configType string) bool {
	_, ok := b[configType]
	return ok
}

// Get returns a property value and whether it was present
func (b Bundle) Get(configType, name string) (string, bool) {
	ct, ok := b[configType]
	if !ok || ct == nil || ct.Properties == nil {
		return "", false
	}
	v, ok := ct.Properties[name]
	return v, ok
}

// Properties returns the properties of a config type, or nil when absent
func (b Bundle) Properties(configType string) Properties {
	ct, ok := b[configType]
	if !ok || ct == nil {
		return nil
	}
	return ct.Properties
}

func (b Bundle) ensure(configType string) *ConfigType {
	ct, ok := b[configType]
	if !ok || ct == nil {
		ct = &ConfigType{}
		b[configType] = ct
	}
	if ct.Properties == nil {
		ct.Properties = Properties{}
	}
	return ct
}

// Set writes a property value. The last write for a key wins.
func (b Bundle) Set(configType, name, value string) {
	b.ensure(configType).Properties[name] = value
}

// SetAttribute writes a property attribute
func (b Bundle) SetAttribute(configType, name, attribute, value string) {
	ct := b.ensure(configType)
	if ct.PropertyAttributes == nil {
		ct.PropertyAttributes = map[string]map[string]string{}
	}
	if ct.PropertyAttributes[name] == nil {
		ct.PropertyAttributes[name] = map[string]string{}
	}
	ct.PropertyAttributes[name][attribute] = value
}

// Attribute returns a property attribute and whether it was present
func (b Bundle) Attribute(configType, name, attribute string) (string, bool) {
	ct, ok := b[configType]
	if !ok || ct == nil || ct.PropertyAttributes == nil {
		return "", false
	}
	v, ok := ct.PropertyAttributes[name][attribute]
	return v, ok
}

// Clone returns a deep copy of the bundle
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for name, ct := range b {
		if ct == nil {
			out[name] = &ConfigType{Properties: Properties{}}
			continue
		}
		cp := &ConfigType{Properties: make(Properties, len(ct.Properties))}
		for k, v := range ct.Properties {
			cp.Properties[k] = v
		}
		if ct.PropertyAttributes != nil {
			cp.PropertyAttributes = make(map[string]map[string]string, len(ct.PropertyAttributes))
			for prop, attrs := range ct.PropertyAttributes {
				m := make(map[string]string, len(attrs))
				for k, v := range attrs {
					m[k] = v
				}
				cp.PropertyAttributes[prop] = m
			}
		}
		out[name] = cp
	}
	return out
}

// Writes flattens the bundle into property writes sorted by config type and name
func (b Bundle) Writes() []PropertyWrite {
	var writes []PropertyWrite
	for configType, ct := range b {
		if ct == nil {
			continue
		}
		for name, value := range ct.Properties {
			writes = append(writes, PropertyWrite{ConfigType: configType, Name: name, Value: value})
		}
	}
	sort.Slice(writes, func(i, j int) bool {
		if writes[i].ConfigType != writes[j].ConfigType {
			return writes[i].ConfigType < writes[j].ConfigType
		}
		return writes[i].Name < writes[j].Name
	})
	return writes
}

// AttributeWrites flattens the property attributes of the bundle, sorted
func (b Bundle) AttributeWrites() []AttributeWrite {
	var writes []AttributeWrite
	for configType, ct := range b {
		if ct == nil {
			continue
		}
		for name, attrs := range ct.PropertyAttributes {
			for attr, value := range attrs {
				writes = append(writes, AttributeWrite{ConfigType: configType, Name: name, Attribute: attr, Value: value})
			}
		}
	}
	sort.Slice(writes, func(i, j int) bool {
		a, c := writes[i], writes[j]
		if a.ConfigType != c.ConfigType {
			return a.ConfigType < c.ConfigType
		}
		if a.Name != c.Name {
			return a.Name < c.Name
		}
		return a.Attribute < c.Attribute
	})
	return writes
}

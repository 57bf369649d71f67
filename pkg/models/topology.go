package models

// StackRef identifies the stack definition a cluster runs, e.g. HDP 2.6
type StackRef struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Component is a service component and the hosts it is placed on
type Component struct {
	Name  string   `json:"name" yaml:"name"`
	Hosts []string `json:"hosts,omitempty" yaml:"hosts,omitempty"`
}

// Service is an installed (or to-be-installed) cluster service
type Service struct {
	Name       string      `json:"name" yaml:"name"`
	Components []Component `json:"components,omitempty" yaml:"components,omitempty"`
}

// Host holds the resource totals of a cluster host
type Host struct {
	Name string `json:"name" yaml:"name"`

	// Memory in KB, matching what agents report
	TotalMemKB int64 `json:"total_mem_kb" yaml:"total_mem_kb"`
	CPUCount   int   `json:"cpu_count" yaml:"cpu_count"`
}

// HostResources is a live observation of one host's totals
type HostResources struct {
	Host       string
	TotalMemKB int64
	CPUCount   int
}

// PropertyRef names a single property of a config type
type PropertyRef struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Request is the input of one advisory computation
type Request struct {
	ClusterName string    `json:"cluster_name" yaml:"cluster_name"`
	Stack       StackRef  `json:"stack" yaml:"stack"`
	Services    []Service `json:"services" yaml:"services"`
	Hosts       []Host    `json:"hosts" yaml:"hosts"`

	// Configurations currently chosen for the cluster. Read-only for recommenders.
	Configurations Bundle `json:"configurations" yaml:"configurations"`

	// ChangedConfigurations lists properties the user edited in this request.
	// Recommendations never override them.
	ChangedConfigurations []PropertyRef `json:"changed_configurations,omitempty" yaml:"changed_configurations,omitempty"`

	// AmbariServerProperties carries server-side settings such as java.home
	AmbariServerProperties map[string]string `json:"ambari_server_properties,omitempty" yaml:"ambari_server_properties,omitempty"`
}

// ServiceNames returns the names of all services in the request, in request order
func (r *Request) ServiceNames() []string {
	names := make([]string, 0, len(r.Services))
	for _, svc := range r.Services {
		names = append(names, svc.Name)
	}
	return names
}

// HasService reports whether the named service is part of the topology
func (r *Request) HasService(name string) bool {
	for _, svc := range r.Services {
		if svc.Name == name {
			return true
		}
	}
	return false
}

// Service looks up a service by name
func (r *Request) Service(name string) (*Service, bool) {
	for i := range r.Services {
		if r.Services[i].Name == name {
			return &r.Services[i], true
		}
	}
	return nil, false
}

// Host looks up a host by name
func (r *Request) Host(name string) (*Host, bool) {
	for i := range r.Hosts {
		if r.Hosts[i].Name == name {
			return &r.Hosts[i], true
		}
	}
	return nil, false
}

// IsChanged reports whether the user edited the given property in this request
func (r *Request) IsChanged(configType, name string) bool {
	for _, ref := range r.ChangedConfigurations {
		if ref.Type == configType && ref.Name == name {
			return true
		}
	}
	return false
}

package advisor

import (
	"strings"

	"github.com/go-logr/logr"

	"github.com/opscart/stack-advisor/pkg/models"
)

const (
	// Upper bounds used when taking minimums over component hosts
	maxHostMemKB = int64(1073741824) // 1 TB
	maxHostCPU   = 256

	defaultZKPort = "2181"
)

// Context is handed to every recommender and validator of one advisory pass.
// Request is read-only; Recommendations is the bundle being built.
type Context struct {
	Request         *models.Request
	Recommendations models.Bundle
	Log             logr.Logger
}

// NewContext creates a context with an empty recommendation bundle
func NewContext(req *models.Request, log logr.Logger) *Context {
	return &Context{
		Request:         req,
		Recommendations: models.Bundle{},
		Log:             log,
	}
}

// PutProperty returns a setter for properties of configType. A property the
// user changed in this request keeps the user's value.
func (c *Context) PutProperty(configType string) func(name, value string) {
	return func(name, value string) {
		if c.Request.IsChanged(configType, name) {
			if userValue, ok := c.Request.Configurations.Get(configType, name); ok {
				c.Recommendations.Set(configType, name, userValue)
				return
			}
		}
		c.Recommendations.Set(configType, name, value)
	}
}

// PutPropertyAttribute returns a setter for property attributes of configType
func (c *Context) PutPropertyAttribute(configType string) func(name, attribute, value string) {
	return func(name, attribute, value string) {
		c.Recommendations.SetAttribute(configType, name, attribute, value)
	}
}

// Input reads a property from the request's current configurations
func (c *Context) Input(configType, name string) (string, bool) {
	return c.Request.Configurations.Get(configType, name)
}

// InputOr reads a property from the request, falling back to def
func (c *Context) InputOr(configType, name, def string) string {
	if v, ok := c.Input(configType, name); ok {
		return v
	}
	return def
}

// HasInputType reports whether the request carries the config type at all
func (c *Context) HasInputType(configType string) bool {
	return c.Request.Configurations.Has(configType)
}

// Current reads a property, preferring a value recommended earlier in this
// pass over the request's value.
func (c *Context) Current(configType, name string) (string, bool) {
	if v, ok := c.Recommendations.Get(configType, name); ok {
		return v, true
	}
	return c.Input(configType, name)
}

// HasService reports whether the service is part of the topology
func (c *Context) HasService(name string) bool {
	return c.Request.HasService(name)
}

// ComponentHostNames returns the host names a component is placed on
func (c *Context) ComponentHostNames(service, component string) []string {
	svc, ok := c.Request.Service(service)
	if !ok {
		return nil
	}
	for _, comp := range svc.Components {
		if comp.Name == component {
			out := make([]string, len(comp.Hosts))
			copy(out, comp.Hosts)
			return out
		}
	}
	return nil
}

// HostsWithComponent resolves component placements to hosts with their
// resource totals. Placements naming unknown hosts are skipped.
func (c *Context) HostsWithComponent(service, component string) []models.Host {
	var hosts []models.Host
	for _, name := range c.ComponentHostNames(service, component) {
		if h, ok := c.Request.Host(name); ok {
			hosts = append(hosts, *h)
		}
	}
	return hosts
}

// MinMemoryKB returns the smallest memory total among hosts
func MinMemoryKB(hosts []models.Host) int64 {
	lowest := maxHostMemKB
	for _, h := range hosts {
		if h.TotalMemKB < lowest {
			lowest = h.TotalMemKB
		}
	}
	return lowest
}

// MinCPU returns the smallest cpu count among hosts
func MinCPU(hosts []models.Host) int {
	lowest := maxHostCPU
	for _, h := range hosts {
		if h.CPUCount < lowest {
			lowest = h.CPUCount
		}
	}
	return lowest
}

// ZKHostPortString joins the ZooKeeper server hosts with the client port,
// e.g. "zk1:2181,zk2:2181". Empty when ZooKeeper has no servers.
func (c *Context) ZKHostPortString() string {
	hosts := c.ComponentHostNames("ZOOKEEPER", "ZOOKEEPER_SERVER")
	if len(hosts) == 0 {
		return ""
	}
	port := c.InputOr("zoo.cfg", "clientPort", defaultZKPort)
	parts := make([]string, len(hosts))
	for i, h := range hosts {
		parts[i] = h + ":" + port
	}
	return strings.Join(parts, ",")
}

package stacks

import (
	"github.com/opscart/stack-advisor/pkg/stacks/hdp"
)

// Default returns a registry with every built-in stack layer registered
func Default() *Registry {
	reg := NewRegistry()
	// built-in versions are constants and always normalize
	_ = reg.Register(hdp.StackName, hdp.Version, hdp.Rules())
	return reg
}

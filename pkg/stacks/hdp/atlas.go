package hdp

import (
	"sort"

	"github.com/opscart/stack-advisor/pkg/advisor"
)

func recommendAtlas(c *advisor.Context) error {
	if !c.HasService("KNOX") {
		return nil
	}

	knoxHost := "localhost"
	if hosts := c.ComponentHostNames("KNOX", "KNOX_GATEWAY"); len(hosts) > 0 {
		sort.Strings(hosts)
		knoxHost = hosts[0]
	}
	knoxPort := c.InputOr("gateway-site", "gateway.port", "8443")

	c.PutProperty("application-properties")("atlas.sso.knox.providerurl",
		"https://"+knoxHost+":"+knoxPort+"/gateway/knoxsso/api/v1/websso")
	return nil
}

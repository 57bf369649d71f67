package hdp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opscart/stack-advisor/pkg/advisor"
	"github.com/opscart/stack-advisor/pkg/models"
)

const (
	yarnSite = "yarn-site"

	logServerURLKey     = "yarn.log.server.web-service.url"
	httpPolicyKey       = "yarn.http.policy"
	timelineAddressKey  = "yarn.timeline-service.webapp.address"
	timelineHTTPSKey    = "yarn.timeline-service.webapp.https.address"
	schedulerMonitorKey = "yarn.resourcemanager.scheduler.monitor.enable"
	underutilizedKey    = "yarn.scheduler.capacity.ordering-policy.priority-utilization.underutilized-preemption.enabled"

	applicationHistoryPath = "/ws/v1/applicationhistory"
)

// TimelineWebServiceURL derives the log-server web-service URL from the
// http policy and the matching timeline webapp address. ok is false when the
// address it needs is not set.
func TimelineWebServiceURL(props models.Properties) (url string, ok bool) {
	if props[httpPolicyKey] == "HTTP_ONLY" {
		addr, ok := props[timelineAddressKey]
		if !ok {
			return "", false
		}
		return "http://" + addr + applicationHistoryPath, true
	}
	addr, ok := props[timelineHTTPSKey]
	if !ok {
		return "", false
	}
	return "https://" + addr + applicationHistoryPath, true
}

func recommendYarn(c *advisor.Context) error {
	putYarnSite := c.PutProperty(yarnSite)

	if enabled, ok := c.Input(yarnSite, schedulerMonitorKey); ok {
		putYarnSite(underutilizedKey, strconv.FormatBool(strings.EqualFold(enabled, "true")))
	}

	props := c.Request.Configurations.Properties(yarnSite)
	_, hasHTTPS := props[timelineHTTPSKey]
	_, hasPolicy := props[httpPolicyKey]
	_, hasURL := props[logServerURLKey]
	if hasHTTPS && hasPolicy && hasURL {
		if url, ok := TimelineWebServiceURL(props); ok {
			putYarnSite(logServerURLKey, url)
		}
	}
	return nil
}

func validateYarnSite(props, _ models.Properties, c *advisor.Context) []models.Finding {
	current, ok := props[logServerURLKey]
	if !ok {
		return nil
	}
	want, ok := TimelineWebServiceURL(props)
	if !ok {
		return nil
	}
	c.Log.V(1).Info("Checking log server web-service url", "current", current, "expected", want)
	if current != want {
		return []models.Finding{advisor.Warn(logServerURLKey, fmt.Sprintf("Value should be %s", want))}
	}
	return nil
}

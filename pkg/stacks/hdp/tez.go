package hdp

import (
	"regexp"

	"golang.org/x/mod/semver"

	"github.com/opscart/stack-advisor/pkg/advisor"
)

const (
	parallelGC = "-XX:+UseParallelGC"
	g1GC       = "-XX:+UseG1GC -XX:+ResizeTLAB"

	tezBaseOpts = "-XX:+PrintGCDetails -verbose:gc -XX:+PrintGCTimeStamps -XX:+UseNUMA "

	// expanded when the configuration is written at start time
	heapDumpPlaceholder = "{{heap_dump_opts}}"
)

var jdkVersionPattern = regexp.MustCompile(`^.*/jdk(1\.\d+)[-_.][^/]*$`)

// GCParams picks JVM GC flags for the JDK under javaHome. JDK 8 and later
// get G1.
func GCParams(javaHome string) string {
	m := jdkVersionPattern.FindStringSubmatch(javaHome)
	if m == nil {
		return parallelGC
	}
	if semver.Compare("v"+m[1], "v1.8") >= 0 {
		return g1GC
	}
	return parallelGC
}

func recommendTez(c *advisor.Context) error {
	opts := tezBaseOpts + GCParams(c.Request.AmbariServerProperties["java.home"]) + heapDumpPlaceholder

	putTez := c.PutProperty("tez-site")
	putTez("tez.am.launch.cmd-opts", opts)
	putTez("tez.task.launch.cmd-opts", opts)
	c.Log.Info("Updated tez-site launch opts", "opts", opts)
	return nil
}

package hdp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opscart/stack-advisor/pkg/advisor"
	"github.com/opscart/stack-advisor/pkg/models"
)

const (
	druidCommon = "druid-common"

	mysqlExtension    = "mysql-metadata-storage"
	postgresExtension = "postgresql-metadata-storage"

	minDruidHeapMB = 1024
)

// druidNodeTypes maps Druid components to the node type used in property
// and config-type names
var druidNodeTypes = map[string]string{
	"DRUID_BROKER":        "broker",
	"DRUID_COORDINATOR":   "coordinator",
	"DRUID_HISTORICAL":    "historical",
	"DRUID_MIDDLEMANAGER": "middlemanager",
	"DRUID_OVERLORD":      "overlord",
	"DRUID_ROUTER":        "router",
}

type metadataStore struct {
	port      string
	extension string
	uri       string // host, database and port are substituted in that order
}

var metadataStores = map[string]metadataStore{
	"mysql": {
		port:      "3306",
		extension: mysqlExtension,
		uri:       "jdbc:mysql://%[1]s:%[3]s/%[2]s?createDatabaseIfNotExist=true",
	},
	"postgresql": {
		port:      "5432",
		extension: postgresExtension,
		uri:       "jdbc:postgresql://%[1]s:%[3]s/%[2]s",
	},
	"derby": {
		port: "1527",
		uri:  "jdbc:derby://%[1]s:%[3]s/%[2]s;create=true",
	},
}

// MetadataConnectionString builds the JDBC URI of the Druid metadata store
func MetadataConnectionString(databaseType, host, database, port string) (string, error) {
	store, ok := metadataStores[strings.ToLower(databaseType)]
	if !ok {
		return "", fmt.Errorf("%w %q for druid.metadata.storage.type", advisor.ErrUnknownDatabaseType, databaseType)
	}
	return fmt.Sprintf(store.uri, host, database, port), nil
}

func recommendDruid(c *advisor.Context) error {
	// druid is not being installed
	if !c.HasInputType(druidCommon) {
		return nil
	}

	putCommon := c.PutProperty(druidCommon)
	putCommon("druid.zk.service.host", c.ZKHostPortString())
	recommendDruidMaxMemory(c)

	extensions, err := models.ParseOrderedSet(c.InputOr(druidCommon, "druid.extensions.loadList", ""))
	if err != nil {
		return fmt.Errorf("druid.extensions.loadList: %w", err)
	}

	// Metadata storage
	databaseType := strings.ToLower(c.InputOr(druidCommon, "druid.metadata.storage.type", "derby"))
	extensions.Remove(mysqlExtension)
	extensions.Remove(postgresExtension)

	port := metadataStores["derby"].port
	if store, ok := metadataStores[databaseType]; ok {
		port = store.port
		if store.extension != "" {
			extensions.Add(store.extension)
		}
	}
	putCommon("druid.metadata.storage.connector.port", port)

	uri, uriErr := MetadataConnectionString(databaseType,
		c.InputOr(druidCommon, "metastore_hostname", ""),
		c.InputOr(druidCommon, "database_name", ""),
		port)
	if uriErr == nil {
		putCommon("druid.metadata.storage.connector.connectURI", uri)
	}

	// HDFS as deep storage
	if c.HasService("HDFS") && c.HasInputType("hdfs-site") {
		extensions.Add("druid-hdfs-storage")
		putCommon("druid.storage.type", "hdfs")
		putCommon("druid.storage.storageDirectory", "/user/druid/data")
		putCommon("druid.indexer.logs.type", "hdfs")
		putCommon("druid.indexer.logs.directory", "/user/druid/logs")
	}
	if c.HasService("KAFKA") {
		extensions.Add("druid-kafka-indexing-service")
	}
	if c.HasService("AMBARI_METRICS") {
		extensions.Add("ambari-metrics-emitter")
	}
	putCommon("druid.extensions.loadList", extensions.String())

	recommendDruidThreads(c)
	recommendSuperset(c)

	return uriErr
}

func recommendDruidMaxMemory(c *advisor.Context) {
	putEnvAttribute := c.PutPropertyAttribute("druid-env")
	for _, component := range []string{"DRUID_HISTORICAL", "DRUID_MIDDLEMANAGER", "DRUID_BROKER", "DRUID_OVERLORD", "DRUID_COORDINATOR"} {
		hosts := c.HostsWithComponent("DRUID", component)
		if len(hosts) == 0 {
			continue
		}
		memMB := advisor.MinMemoryKB(hosts) / 1024
		if memMB < minDruidHeapMB {
			memMB = minDruidHeapMB
		}
		nodeType := druidNodeTypes[component]
		putEnvAttribute(fmt.Sprintf("druid.%s.jvm.heap.memory", nodeType), "maximum", strconv.FormatInt(memMB, 10))
	}
}

// ProcessingThreads returns the processing and http thread counts for a
// node with cpu cores
func ProcessingThreads(cpu int) (processing, http int) {
	processing = 1
	if cpu > 1 {
		processing = cpu - 1
	}
	http = cpu*17/16 + 2
	if http < 10 {
		http = 10
	}
	return processing, http + 30
}

func recommendDruidThreads(c *advisor.Context) {
	for _, component := range []string{"DRUID_HISTORICAL", "DRUID_BROKER"} {
		hosts := c.HostsWithComponent("DRUID", component)
		if len(hosts) == 0 {
			continue
		}
		processing, http := ProcessingThreads(advisor.MinCPU(hosts))
		put := c.PutProperty("druid-" + druidNodeTypes[component])
		put("druid.processing.numThreads", strconv.Itoa(processing))
		put("druid.server.http.numThreads", strconv.Itoa(http))
	}
}

func recommendSuperset(c *advisor.Context) {
	if !c.HasInputType("druid-superset") {
		return
	}
	putSuperset := c.PutProperty("druid-superset")
	switch strings.ToLower(c.InputOr("druid-superset", "SUPERSET_DATABASE_TYPE", "")) {
	case "mysql":
		putSuperset("SUPERSET_DATABASE_PORT", "3306")
	case "postgresql":
		putSuperset("SUPERSET_DATABASE_PORT", "5432")
	}
}

// validateDruidEnv checks the direct memory of broker and historical nodes
// against their processing buffers. Node types with unset or non-numeric
// values are skipped.
func validateDruidEnv(props, _ models.Properties, c *advisor.Context) []models.Finding {
	var findings []models.Finding
	for _, nodeType := range []string{"broker", "historical"} {
		nodeProps := c.Request.Configurations.Properties("druid-" + nodeType)
		bufferBytes, err1 := strconv.Atoi(nodeProps["druid.processing.buffer.sizeBytes"])
		threads, err2 := strconv.Atoi(nodeProps["druid.processing.numThreads"])
		directKey := fmt.Sprintf("druid.%s.jvm.direct.memory", nodeType)
		directMB, err3 := strconv.Atoi(props[directKey])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		bufferMB := bufferBytes / (1024 * 1024)
		if directMB < (threads+1)*bufferMB {
			findings = append(findings, advisor.Error(directKey, fmt.Sprintf(
				"Not enough direct memory available for %s Node. Please adjust %s, druid.processing.buffer.sizeBytes, druid.processing.numThreads",
				nodeType, directKey)))
		}
	}
	return findings
}

func validateDruidProcessingThreads(props, recommended models.Properties, _ *advisor.Context) []models.Finding {
	return advisor.EqualsRecommended(props, recommended, "druid.processing.numThreads")
}

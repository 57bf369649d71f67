package hdp

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/stack-advisor/pkg/advisor"
	"github.com/opscart/stack-advisor/pkg/models"
)

const gb = 1024 * 1024 // KB

func druidRequest(dbType string) *models.Request {
	req := &models.Request{
		ClusterName: "c1",
		Stack:       models.StackRef{Name: StackName, Version: Version},
		Services: []models.Service{
			{Name: "ZOOKEEPER", Components: []models.Component{{Name: "ZOOKEEPER_SERVER", Hosts: []string{"zk1"}}}},
			{Name: "DRUID", Components: []models.Component{
				{Name: "DRUID_BROKER", Hosts: []string{"h1", "h2"}},
				{Name: "DRUID_HISTORICAL", Hosts: []string{"h2"}},
			}},
		},
		Hosts: []models.Host{
			{Name: "h1", TotalMemKB: 16 * gb, CPUCount: 8},
			{Name: "h2", TotalMemKB: 4 * gb, CPUCount: 4},
		},
		Configurations: models.Bundle{},
	}
	req.Configurations.Set(druidCommon, "druid.metadata.storage.type", dbType)
	req.Configurations.Set(druidCommon, "druid.extensions.loadList", `["druid-datasketches", "postgresql-metadata-storage", "mysql-metadata-storage"]`)
	req.Configurations.Set(druidCommon, "metastore_hostname", "db1")
	req.Configurations.Set(druidCommon, "database_name", "druid")
	return req
}

func recommend(t *testing.T, req *models.Request) *advisor.Result {
	t.Helper()
	res, err := advisor.New(Rules(), logr.Discard()).Recommend(req)
	require.NoError(t, err)
	return res
}

func loadList(t *testing.T, b models.Bundle) *models.OrderedSet {
	t.Helper()
	raw, ok := b.Get(druidCommon, "druid.extensions.loadList")
	require.True(t, ok)
	set, err := models.ParseOrderedSet(raw)
	require.NoError(t, err)
	return set
}

func TestDruidMetadataStorage(t *testing.T) {
	tests := []struct {
		dbType    string
		wantPort  string
		wantExt   string
		absentExt string
		wantURI   string
	}{
		{"mysql", "3306", mysqlExtension, postgresExtension, "jdbc:mysql://db1:3306/druid?createDatabaseIfNotExist=true"},
		{"postgresql", "5432", postgresExtension, mysqlExtension, "jdbc:postgresql://db1:5432/druid"},
	}
	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			res := recommend(t, druidRequest(tt.dbType))
			require.Empty(t, res.Errors)

			port, _ := res.Recommendations.Get(druidCommon, "druid.metadata.storage.connector.port")
			assert.Equal(t, tt.wantPort, port)

			uri, _ := res.Recommendations.Get(druidCommon, "druid.metadata.storage.connector.connectURI")
			assert.Equal(t, tt.wantURI, uri)

			exts := loadList(t, res.Recommendations)
			assert.True(t, exts.Contains(tt.wantExt))
			assert.False(t, exts.Contains(tt.absentExt))
			assert.True(t, exts.Contains("druid-datasketches"))
		})
	}
}

func TestDruidDerbyHasNoStorageExtension(t *testing.T) {
	res := recommend(t, druidRequest("derby"))
	require.Empty(t, res.Errors)

	exts := loadList(t, res.Recommendations)
	assert.Equal(t, []string{"druid-datasketches"}, exts.Items())

	uri, _ := res.Recommendations.Get(druidCommon, "druid.metadata.storage.connector.connectURI")
	assert.Equal(t, "jdbc:derby://db1:1527/druid;create=true", uri)
}

func TestDruidUnknownDatabaseType(t *testing.T) {
	res := recommend(t, druidRequest("oracle"))

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "DRUID", res.Errors[0].Service)
	assert.ErrorIs(t, res.Errors[0], advisor.ErrUnknownDatabaseType)

	_, ok := res.Recommendations.Get(druidCommon, "druid.metadata.storage.connector.connectURI")
	assert.False(t, ok)
	// the rest of the druid rules still apply
	zk, _ := res.Recommendations.Get(druidCommon, "druid.zk.service.host")
	assert.Equal(t, "zk1:2181", zk)
}

func TestDruidCoInstalledServices(t *testing.T) {
	req := druidRequest("mysql")
	req.Services = append(req.Services,
		models.Service{Name: "HDFS"},
		models.Service{Name: "KAFKA"},
		models.Service{Name: "AMBARI_METRICS"},
	)
	req.Configurations.Set("hdfs-site", "dfs.replication", "3")

	res := recommend(t, req)
	exts := loadList(t, res.Recommendations)
	for _, ext := range []string{"druid-hdfs-storage", "druid-kafka-indexing-service", "ambari-metrics-emitter"} {
		assert.True(t, exts.Contains(ext), ext)
	}
	storage, _ := res.Recommendations.Get(druidCommon, "druid.storage.type")
	assert.Equal(t, "hdfs", storage)
}

func TestDruidHeapAndThreads(t *testing.T) {
	res := recommend(t, druidRequest("mysql"))

	// broker runs on h1 and h2, the smaller host decides
	heap, ok := res.Recommendations.Attribute("druid-env", "druid.broker.jvm.heap.memory", "maximum")
	require.True(t, ok)
	assert.Equal(t, "4096", heap)

	threads, _ := res.Recommendations.Get("druid-broker", "druid.processing.numThreads")
	assert.Equal(t, "3", threads)
	httpThreads, _ := res.Recommendations.Get("druid-historical", "druid.server.http.numThreads")
	assert.Equal(t, "40", httpThreads)
}

func TestDruidHeapFloor(t *testing.T) {
	req := druidRequest("mysql")
	req.Hosts[1].TotalMemKB = 512 * 1024

	res := recommend(t, req)
	heap, _ := res.Recommendations.Attribute("druid-env", "druid.historical.jvm.heap.memory", "maximum")
	assert.Equal(t, "1024", heap)
}

func TestProcessingThreads(t *testing.T) {
	tests := []struct {
		cpu            int
		wantProcessing int
		wantHTTP       int
	}{
		{1, 1, 40},
		{4, 3, 40},
		{16, 15, 49},
		{64, 63, 100},
	}
	for _, tt := range tests {
		processing, http := ProcessingThreads(tt.cpu)
		assert.Equal(t, tt.wantProcessing, processing, "cpu=%d", tt.cpu)
		assert.Equal(t, tt.wantHTTP, http, "cpu=%d", tt.cpu)
	}
}

func TestDruidKeepsUserChangedPort(t *testing.T) {
	req := druidRequest("mysql")
	req.Configurations.Set(druidCommon, "druid.metadata.storage.connector.port", "3307")
	req.ChangedConfigurations = []models.PropertyRef{{Type: druidCommon, Name: "druid.metadata.storage.connector.port"}}

	res := recommend(t, req)
	port, _ := res.Recommendations.Get(druidCommon, "druid.metadata.storage.connector.port")
	assert.Equal(t, "3307", port)
}

func TestDruidEnvDirectMemory(t *testing.T) {
	req := druidRequest("mysql")
	req.Configurations.Set("druid-broker", "druid.processing.buffer.sizeBytes", "1073741824")
	req.Configurations.Set("druid-broker", "druid.processing.numThreads", "3")
	req.Configurations.Set("druid-env", "druid.broker.jvm.direct.memory", "2048")

	res, err := advisor.New(Rules(), logr.Discard()).Validate(req)
	require.NoError(t, err)

	var direct []models.Finding
	for _, f := range res.Findings {
		if f.ConfigType == "druid-env" {
			direct = append(direct, f)
		}
	}
	require.Len(t, direct, 1)
	assert.Equal(t, models.LevelError, direct[0].Level)
	assert.Equal(t, "druid.broker.jvm.direct.memory", direct[0].ConfigName)
}

func TestAbsentServicesAreUntouched(t *testing.T) {
	req := &models.Request{
		Services:       []models.Service{{Name: "HDFS"}},
		Configurations: models.Bundle{},
	}
	// configurations of services that are not installed
	req.Configurations.Set(druidCommon, "druid.metadata.storage.type", "mysql")
	req.Configurations.Set(yarnSite, httpPolicyKey, "HTTP_ONLY")
	req.Configurations.Set(yarnSite, timelineAddressKey, "h:1")
	req.Configurations.Set(yarnSite, timelineHTTPSKey, "h:2")
	req.Configurations.Set(yarnSite, logServerURLKey, "wrong")
	req.Configurations.Set(usersyncSite, deltaSyncKey, "true")

	res, err := advisor.New(Rules(), logr.Discard()).Validate(req)
	require.NoError(t, err)

	assert.Empty(t, res.Recommendations)
	assert.Empty(t, res.Findings)
	assert.Empty(t, res.Errors)
}

func TestRecommendIsIdempotent(t *testing.T) {
	req := druidRequest("postgresql")
	req.Services = append(req.Services, models.Service{Name: "YARN"}, models.Service{Name: "RANGER"})
	req.Configurations.Set(yarnSite, httpPolicyKey, "HTTPS_ONLY")
	req.Configurations.Set(yarnSite, timelineHTTPSKey, "h:2")
	req.Configurations.Set(yarnSite, logServerURLKey, "")
	req.Configurations.Set(usersyncSite, deltaSyncKey, "true")
	before := req.Configurations.Clone()

	first := recommend(t, req)
	second := recommend(t, req)

	assert.Equal(t, first.Recommendations, second.Recommendations)
	assert.Equal(t, before, req.Configurations, "input configurations must not be mutated")
}

func TestYarnTimelineURL(t *testing.T) {
	tests := []struct {
		policy string
		want   string
	}{
		{"HTTP_ONLY", "http://h:1/ws/v1/applicationhistory"},
		{"HTTPS_ONLY", "https://h:2/ws/v1/applicationhistory"},
		{"HTTP_AND_HTTPS", "https://h:2/ws/v1/applicationhistory"},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			req := &models.Request{Services: []models.Service{{Name: "YARN"}}, Configurations: models.Bundle{}}
			req.Configurations.Set(yarnSite, httpPolicyKey, tt.policy)
			req.Configurations.Set(yarnSite, timelineAddressKey, "h:1")
			req.Configurations.Set(yarnSite, timelineHTTPSKey, "h:2")
			req.Configurations.Set(yarnSite, logServerURLKey, "old")

			res := recommend(t, req)
			got, _ := res.Recommendations.Get(yarnSite, logServerURLKey)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYarnSiteValidation(t *testing.T) {
	req := &models.Request{Services: []models.Service{{Name: "YARN"}}, Configurations: models.Bundle{}}
	req.Configurations.Set(yarnSite, httpPolicyKey, "HTTP_ONLY")
	req.Configurations.Set(yarnSite, timelineAddressKey, "h:1")
	req.Configurations.Set(yarnSite, timelineHTTPSKey, "h:2")
	req.Configurations.Set(yarnSite, logServerURLKey, "https://h:2/ws/v1/applicationhistory")

	res, err := advisor.New(Rules(), logr.Discard()).Validate(req)
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "Value should be http://h:1/ws/v1/applicationhistory", res.Findings[0].Message)
}

func TestYarnUnderutilizedPreemption(t *testing.T) {
	req := &models.Request{Services: []models.Service{{Name: "YARN"}}, Configurations: models.Bundle{}}
	req.Configurations.Set(yarnSite, schedulerMonitorKey, "TRUE")

	res := recommend(t, req)
	v, _ := res.Recommendations.Get(yarnSite, underutilizedKey)
	assert.Equal(t, "true", v)
	_, ok := res.Recommendations.Get(yarnSite, logServerURLKey)
	assert.False(t, ok)
}

func TestRangerDeltaSync(t *testing.T) {
	tests := []struct {
		name        string
		deltaSync   string
		groupSearch string
		want        int
	}{
		{"delta sync without group search", "true", "false", 1},
		{"delta sync with unset group search", "true", "", 1},
		{"both enabled", "true", "true", 0},
		{"delta sync disabled", "false", "false", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &models.Request{Services: []models.Service{{Name: "RANGER"}}, Configurations: models.Bundle{}}
			req.Configurations.Set(usersyncSite, deltaSyncKey, tt.deltaSync)
			if tt.groupSearch != "" {
				req.Configurations.Set(usersyncSite, groupSearchKey, tt.groupSearch)
			}

			res, err := advisor.New(Rules(), logr.Discard()).Validate(req)
			require.NoError(t, err)
			require.Len(t, res.Findings, tt.want)
			if tt.want == 1 {
				assert.Equal(t, groupSearchKey, res.Findings[0].ConfigName)
				assert.Equal(t, models.LevelWarn, res.Findings[0].Level)
			}

			v, _ := res.Recommendations.Get(usersyncSite, groupSearchKey)
			assert.Equal(t, tt.deltaSync, v)
		})
	}
}

func TestRangerKMSPort(t *testing.T) {
	req := &models.Request{Services: []models.Service{{Name: "RANGER_KMS"}}, Configurations: models.Bundle{}}
	res := recommend(t, req)
	port, _ := res.Recommendations.Get("kms-env", "kms_port")
	assert.Equal(t, "9292", port)

	req.Configurations.Set("ranger-kms-site", "ranger.service.https.attrib.ssl.enabled", "true")
	res = recommend(t, req)
	port, _ = res.Recommendations.Get("kms-env", "kms_port")
	assert.Equal(t, "9393", port)
}

func TestRangerPluginRepoUser(t *testing.T) {
	req := &models.Request{
		Services:       []models.Service{{Name: "HIVE"}, {Name: "HBASE"}},
		Configurations: models.Bundle{},
	}
	req.Configurations.Set("hive-env", "hive_user", "hiveadm")
	req.Configurations.Set("hive-env", "hive_security_authorization", "Ranger")
	req.Configurations.Set("ranger-hive-plugin-properties", repoUsernameKey, "old")
	req.Configurations.Set("ranger-hbase-plugin-properties", "ranger-hbase-plugin-enabled", "no")
	req.Configurations.Set("ranger-hbase-plugin-properties", repoUsernameKey, "old")

	res := recommend(t, req)
	hive, _ := res.Recommendations.Get("ranger-hive-plugin-properties", repoUsernameKey)
	assert.Equal(t, "hiveadm", hive)
	_, ok := res.Recommendations.Get("ranger-hbase-plugin-properties", repoUsernameKey)
	assert.False(t, ok)
}

func TestGCParams(t *testing.T) {
	tests := []struct {
		javaHome string
		want     string
	}{
		{"/usr/jdk64/jdk1.8.0_112", g1GC},
		{"/usr/jdk64/jdk1.7.0_67", parallelGC},
		{"/usr/lib/jvm/java-openjdk", parallelGC},
		{"", parallelGC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GCParams(tt.javaHome), tt.javaHome)
	}
}

func TestTezLaunchOpts(t *testing.T) {
	req := &models.Request{
		Services:               []models.Service{{Name: "TEZ"}},
		Configurations:         models.Bundle{},
		AmbariServerProperties: map[string]string{"java.home": "/usr/jdk64/jdk1.8.0_112"},
	}
	res := recommend(t, req)

	want := tezBaseOpts + g1GC + heapDumpPlaceholder
	am, _ := res.Recommendations.Get("tez-site", "tez.am.launch.cmd-opts")
	task, _ := res.Recommendations.Get("tez-site", "tez.task.launch.cmd-opts")
	assert.Equal(t, want, am)
	assert.Equal(t, want, task)
}

func TestAtlasKnoxProviderURL(t *testing.T) {
	req := &models.Request{
		Services: []models.Service{
			{Name: "ATLAS"},
			{Name: "KNOX", Components: []models.Component{{Name: "KNOX_GATEWAY", Hosts: []string{"knox2", "knox1"}}}},
		},
		Configurations: models.Bundle{},
	}
	req.Configurations.Set("gateway-site", "gateway.port", "8444")

	res := recommend(t, req)
	url, _ := res.Recommendations.Get("application-properties", "atlas.sso.knox.providerurl")
	assert.Equal(t, "https://knox1:8444/gateway/knoxsso/api/v1/websso", url)
}

func TestAtlasWithoutKnox(t *testing.T) {
	req := &models.Request{Services: []models.Service{{Name: "ATLAS"}}, Configurations: models.Bundle{}}
	res := recommend(t, req)
	assert.False(t, res.Recommendations.Has("application-properties"))
}

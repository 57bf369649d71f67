package hdp

import (
	"strconv"
	"strings"

	"github.com/opscart/stack-advisor/pkg/advisor"
	"github.com/opscart/stack-advisor/pkg/models"
)

const (
	usersyncSite      = "ranger-ugsync-site"
	deltaSyncKey      = "ranger.usersync.ldap.deltasync"
	groupSearchKey    = "ranger.usersync.group.searchenabled"
	repoUsernameKey   = "REPOSITORY_CONFIG_USERNAME"
	defaultKMSPort    = "9292"
	defaultKMSSSLPort = "9393"
)

func recommendRanger(c *advisor.Context) error {
	deltaSync := c.InputOr(usersyncSite, deltaSyncKey, "") == "true"
	c.PutProperty(usersyncSite)(groupSearchKey, strconv.FormatBool(deltaSync))
	return nil
}

func validateRangerUsersync(props, _ models.Properties, _ *advisor.Context) []models.Finding {
	deltaSync := strings.EqualFold(props[deltaSyncKey], "true")
	groupSearch := strings.EqualFold(props[groupSearchKey], "true")
	if deltaSync && !groupSearch {
		return []models.Finding{advisor.Warn(groupSearchKey,
			"Need to set ranger.usersync.group.searchenabled as true, as ranger.usersync.ldap.deltasync is enabled")}
	}
	return nil
}

func recommendRangerKMS(c *advisor.Context) error {
	sslEnabled := strings.EqualFold(c.InputOr("ranger-kms-site", "ranger.service.https.attrib.ssl.enabled", ""), "true")
	port := defaultKMSPort
	if sslEnabled {
		port = c.InputOr("ranger-kms-site", "ranger.service.https.port", defaultKMSSSLPort)
	}
	c.PutProperty("kms-env")("kms_port", port)
	return nil
}

// rangerPluginRule points a service's Ranger repository at the service user
// once the service's Ranger plugin is enabled
type rangerPluginRule struct {
	service string

	userType    string
	userKey     string
	defaultUser string

	enabledType  string
	enabledKey   string
	enabledValue string

	pluginType string
}

var rangerPluginRules = []rangerPluginRule{
	{
		service: "HDFS", userType: "hadoop-env", userKey: "hdfs_user", defaultUser: "hadoop",
		enabledType: "ranger-hdfs-plugin-properties", enabledKey: "ranger-hdfs-plugin-enabled", enabledValue: "yes",
		pluginType: "ranger-hdfs-plugin-properties",
	},
	{
		service: "YARN", userType: "yarn-env", userKey: "yarn_user", defaultUser: "yarn",
		enabledType: "ranger-yarn-plugin-properties", enabledKey: "ranger-yarn-plugin-enabled", enabledValue: "yes",
		pluginType: "ranger-yarn-plugin-properties",
	},
	{
		service: "HIVE", userType: "hive-env", userKey: "hive_user", defaultUser: "hive",
		enabledType: "hive-env", enabledKey: "hive_security_authorization", enabledValue: "ranger",
		pluginType: "ranger-hive-plugin-properties",
	},
	{
		service: "HBASE", userType: "hbase-env", userKey: "hbase_user", defaultUser: "hbase",
		enabledType: "ranger-hbase-plugin-properties", enabledKey: "ranger-hbase-plugin-enabled", enabledValue: "yes",
		pluginType: "ranger-hbase-plugin-properties",
	},
	{
		service: "KAFKA", userType: "kafka-env", userKey: "kafka_user", defaultUser: "kafka",
		enabledType: "ranger-kafka-plugin-properties", enabledKey: "ranger-kafka-plugin-enabled", enabledValue: "yes",
		pluginType: "ranger-kafka-plugin-properties",
	},
}

func (r rangerPluginRule) recommend(c *advisor.Context) error {
	user := c.InputOr(r.userType, r.userKey, r.defaultUser)

	enabled := false
	if v, ok := c.Current(r.enabledType, r.enabledKey); ok {
		enabled = strings.EqualFold(v, r.enabledValue)
	}

	if _, hasRepoUser := c.Input(r.pluginType, repoUsernameKey); enabled && hasRepoUser {
		c.Log.Info("Setting repo user for Ranger", "user", user)
		c.PutProperty(r.pluginType)(repoUsernameKey, user)
		return nil
	}
	c.Log.V(1).Info("Not setting repo user for Ranger")
	return nil
}

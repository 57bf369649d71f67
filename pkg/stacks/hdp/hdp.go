// Package hdp holds the recommendation and validation rules of the HDP stack.
package hdp

import "github.com/opscart/stack-advisor/pkg/advisor"

const (
	StackName = "HDP"
	Version   = "2.6"
)

// Rules returns the HDP 2.6 rule-set layer
func Rules() *advisor.RuleSet {
	rs := advisor.NewRuleSet("HDP-2.6")

	rs.AddRecommender("DRUID", recommendDruid)
	rs.AddRecommender("ATLAS", recommendAtlas)
	rs.AddRecommender("TEZ", recommendTez)
	rs.AddRecommender("RANGER", recommendRanger)
	rs.AddRecommender("RANGER_KMS", recommendRangerKMS)
	rs.AddRecommender("YARN", recommendYarn)

	for _, rule := range rangerPluginRules {
		rs.AddRecommender(rule.service, rule.recommend)
	}

	rs.AddValidator("DRUID", "druid-env", validateDruidEnv)
	rs.AddValidator("DRUID", "druid-historical", validateDruidProcessingThreads)
	rs.AddValidator("DRUID", "druid-broker", validateDruidProcessingThreads)
	rs.AddValidator("RANGER", "ranger-ugsync-site", validateRangerUsersync)
	rs.AddValidator("YARN", "yarn-site", validateYarnSite)

	return rs
}

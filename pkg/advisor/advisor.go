package advisor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-logr/logr"

	"github.com/opscart/stack-advisor/pkg/models"
)

var (
	// ErrNilRequest is returned when no request is supplied
	ErrNilRequest = errors.New("advisory request is nil")

	// ErrUnknownDatabaseType is returned by recommenders that map a
	// database type to connection details and meet one they do not know
	ErrUnknownDatabaseType = errors.New("unknown database type")
)

// ServiceError is a recommender failure scoped to one service
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Result is the outcome of an advisory pass
type Result struct {
	Recommendations models.Bundle
	Findings        []models.Finding
	Errors          []*ServiceError
}

// Advisor evaluates a merged rule set against advisory requests
type Advisor struct {
	rules *RuleSet
	log   logr.Logger
}

// New creates an advisor over rules. log receives progress messages.
func New(rules *RuleSet, log logr.Logger) *Advisor {
	if rules == nil {
		rules = NewRuleSet("empty")
	}
	return &Advisor{
		rules: rules,
		log:   log.WithName("advisor"),
	}
}

// Rules returns the rule set the advisor evaluates
func (a *Advisor) Rules() *RuleSet {
	return a.rules
}

// Recommend runs the recommenders of every service present in the topology,
// in request order. Services absent from the topology are never touched.
func (a *Advisor) Recommend(req *models.Request) (*Result, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx := NewContext(req, a.log)
	result := &Result{Recommendations: ctx.Recommendations}

	for _, service := range req.ServiceNames() {
		recommenders := a.rules.Recommenders[service]
		if len(recommenders) == 0 {
			continue
		}
		log := a.log.WithValues("service", service)
		log.V(1).Info("Running recommenders", "count", len(recommenders))

		svcCtx := &Context{Request: req, Recommendations: ctx.Recommendations, Log: log}
		for _, recommend := range recommenders {
			if err := recommend(svcCtx); err != nil {
				log.Error(err, "Recommender failed")
				result.Errors = append(result.Errors, &ServiceError{Service: service, Err: err})
			}
		}
	}

	return result, nil
}

// Validate computes recommended defaults for the request, then runs the
// validators of every present service whose config type exists in the
// request. Findings are advisory and never stop the pass.
func (a *Advisor) Validate(req *models.Request) (*Result, error) {
	result, err := a.Recommend(req)
	if err != nil {
		return nil, err
	}

	for _, service := range req.ServiceNames() {
		byType := a.rules.Validators[service]
		if len(byType) == 0 {
			continue
		}
		log := a.log.WithValues("service", service)
		ctx := &Context{Request: req, Recommendations: result.Recommendations, Log: log}

		configTypes := make([]string, 0, len(byType))
		for configType := range byType {
			configTypes = append(configTypes, configType)
		}
		sort.Strings(configTypes)

		before := len(result.Findings)
		for _, configType := range configTypes {
			if !req.Configurations.Has(configType) {
				continue
			}
			props := req.Configurations.Properties(configType)
			recommended := result.Recommendations.Properties(configType)
			if recommended == nil {
				recommended = models.Properties{}
			}
			for _, validate := range byType[configType] {
				for _, f := range validate(props, recommended, ctx) {
					f.Type = models.FindingType
					f.ConfigType = configType
					result.Findings = append(result.Findings, f)
				}
			}
		}
		log.V(1).Info("Validated service", "findings", len(result.Findings)-before)
	}

	return result, nil
}

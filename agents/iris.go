// Package agents assembles the IRIS orchestrator and its specialist
// workflows from the framework primitives.
package agents

import (
	"fmt"

	"github.com/arctechlabs/iris/framework"
	gapi "github.com/arctechlabs/iris/internal/google"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
	googletools "github.com/arctechlabs/iris/tools/google"
	sftools "github.com/arctechlabs/iris/tools/salesforce"
	"github.com/arctechlabs/iris/tools/standard"
)

// Deps carries the external clients the agents' tools need. Salesforce and
// Google are nil until the user connects the corresponding account; their
// specialists are only wired in when present.
type Deps struct {
	Model      framework.LanguageModel
	Salesforce *sfapi.Client
	Google     *gapi.Services
	Search     SearchConfig
	Telemetry  framework.Telemetry
}

// BuildIRIS assembles the primary workflow: the IRIS orchestrator with the
// general-purpose toolset, delegating CRM work to the Salesforce specialist
// and Workspace work to the Google specialist.
func BuildIRIS(cfg *Config, deps Deps) (*framework.Workflow, error) {
	registry := framework.NewToolRegistry()
	tools := []framework.Tool{
		standard.NewCalculatorTool(),
		standard.NewWeatherTool(),
	}
	if deps.Search.APIKey != "" && deps.Search.EngineID != "" {
		tools = append(tools, standard.NewWebSearchTool(deps.Search.APIKey, deps.Search.EngineID))
	}
	if err := registry.RegisterAll(tools...); err != nil {
		return nil, fmt.Errorf("register primary tools: %w", err)
	}

	router := framework.NewRouter()
	delegates := map[string]*framework.Workflow{}

	if deps.Salesforce != nil {
		specialist, err := BuildSalesforce(cfg, deps)
		if err != nil {
			return nil, err
		}
		delegates["salesforce"] = specialist
		router.Delegate("salesforce", "salesforce", "crm", "soql", "opportunity", "account record")
	}
	if deps.Google != nil {
		specialist, err := BuildGoogle(cfg, deps)
		if err != nil {
			return nil, err
		}
		delegates["google"] = specialist
		router.Delegate("google", "google calendar", "google drive", "google doc", "calendar event")
	}

	agent := framework.NewAgentNode("iris", deps.Model, registry, primaryPrompt, &framework.LLMOptions{
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Primary.Temperature,
		MaxTokens:   cfg.Model.Primary.MaxTokens,
	})
	return framework.NewWorkflow(framework.WorkflowConfig{
		Agent:     agent,
		Router:    router,
		Delegates: delegates,
		MaxCycles: cfg.Model.Primary.MaxCycles,
		Telemetry: deps.Telemetry,
	})
}

// BuildSalesforce assembles the CRM specialist with the full Salesforce
// toolset.
func BuildSalesforce(cfg *Config, deps Deps) (*framework.Workflow, error) {
	registry := framework.NewToolRegistry()
	if err := registry.RegisterAll(sftools.AllTools(deps.Salesforce)...); err != nil {
		return nil, fmt.Errorf("register salesforce tools: %w", err)
	}
	agent := framework.NewAgentNode("salesforce", deps.Model, registry, salesforcePrompt, &framework.LLMOptions{
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Salesforce.Temperature,
		MaxTokens:   cfg.Model.Salesforce.MaxTokens,
	})
	return framework.NewWorkflow(framework.WorkflowConfig{
		Agent:     agent,
		MaxCycles: cfg.Model.Salesforce.MaxCycles,
		Telemetry: deps.Telemetry,
	})
}

// BuildGoogle assembles the Workspace specialist.
func BuildGoogle(cfg *Config, deps Deps) (*framework.Workflow, error) {
	registry := framework.NewToolRegistry()
	if err := registry.RegisterAll(googletools.AllTools(deps.Google)...); err != nil {
		return nil, fmt.Errorf("register google tools: %w", err)
	}
	agent := framework.NewAgentNode("google", deps.Model, registry, googlePrompt, &framework.LLMOptions{
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Google.Temperature,
		MaxTokens:   cfg.Model.Google.MaxTokens,
	})
	return framework.NewWorkflow(framework.WorkflowConfig{
		Agent:     agent,
		MaxCycles: cfg.Model.Google.MaxCycles,
		Telemetry: deps.Telemetry,
	})
}

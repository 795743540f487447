package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pgschema/tsschema/internal/color"
	"github.com/pgschema/tsschema/internal/diff"
	"github.com/pgschema/tsschema/internal/feature"
	"github.com/pgschema/tsschema/internal/version"
)

// Plan is the ordered statement list that moves a database from one feature
// snapshot to another
type Plan struct {
	Steps     []diff.PlanStep `json:"steps"`
	Mode      diff.Mode       `json:"mode"`
	CreatedAt time.Time       `json:"created_at"`
}

// ObjectChange represents the statements generated for one operation
type ObjectChange struct {
	Address    string   `json:"address"`
	Type       string   `json:"type"`
	Action     string   `json:"action"`
	Statements []string `json:"statements"`
}

// PlanJSON represents the structured JSON output format
type PlanJSON struct {
	Version         string         `json:"version"`
	TsschemaVersion string         `json:"tsschema_version"`
	CreatedAt       time.Time      `json:"created_at"`
	Mode            diff.Mode      `json:"mode"`
	Summary         PlanSummary    `json:"summary"`
	ObjectChanges   []ObjectChange `json:"object_changes"`
}

// PlanSummary provides counts of changes by type
type PlanSummary struct {
	Add     int                    `json:"add"`
	Change  int                    `json:"change"`
	Destroy int                    `json:"destroy"`
	Total   int                    `json:"total"`
	ByType  map[string]TypeSummary `json:"by_type"`
}

// TypeSummary provides counts for a specific object type
type TypeSummary struct {
	Add     int `json:"add"`
	Change  int `json:"change"`
	Destroy int `json:"destroy"`
}

// getObjectOrder returns the feature kinds in execution order
func getObjectOrder() []diff.Kind {
	return []diff.Kind{
		diff.KindTable,
		diff.KindHypertable,
		diff.KindReorderPolicy,
		diff.KindRollupView,
		diff.KindRefreshPolicy,
	}
}

// ========== PUBLIC METHODS ==========

// NewPlan creates a new plan from generated steps
func NewPlan(steps []diff.PlanStep, mode diff.Mode) *Plan {
	return &Plan{
		Steps:     steps,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
}

// Generate diffs previous against desired and renders the plan
func Generate(previous, desired *feature.Snapshot, opts diff.Options) (*Plan, error) {
	ops, err := diff.Diff(previous, desired)
	if err != nil {
		return nil, fmt.Errorf("failed to diff snapshots: %w", err)
	}
	steps, err := diff.GeneratePlanSteps(ops, opts)
	if err != nil {
		return nil, err
	}
	mode := opts.Mode
	if mode == "" {
		mode = diff.ModeExecutable
	}
	return NewPlan(steps, mode), nil
}

// Statements returns the plain statement list in execution order
func (p *Plan) Statements() []string {
	stmts := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		stmts[i] = step.SQL
	}
	return stmts
}

// HasChanges reports whether the plan contains any statement
func (p *Plan) HasChanges() bool {
	return len(p.Steps) > 0
}

// HumanColored returns a human-readable summary of the plan with color support
func (p *Plan) HumanColored(enableColor bool) string {
	c := color.New(enableColor)
	var summary strings.Builder

	planJSON := p.convertToStructuredJSON()

	if planJSON.Summary.Total == 0 {
		summary.WriteString("No changes detected.\n")
		return summary.String()
	}

	summary.WriteString(c.FormatPlanHeader(planJSON.Summary.Add, planJSON.Summary.Change, planJSON.Summary.Destroy) + "\n\n")

	summary.WriteString(c.Bold("Summary by type:") + "\n")
	for _, kind := range getObjectOrder() {
		if typeSummary, exists := planJSON.Summary.ByType[string(kind)]; exists {
			summary.WriteString(c.FormatSummaryLine(string(kind), typeSummary.Add, typeSummary.Change, typeSummary.Destroy) + "\n")
		}
	}
	summary.WriteString("\n")

	for _, kind := range getObjectOrder() {
		if _, exists := planJSON.Summary.ByType[string(kind)]; exists {
			p.writeDetailedChanges(&summary, string(kind), planJSON.ObjectChanges, c)
		}
	}

	summary.WriteString(c.Bold("DDL to be executed:") + "\n")
	summary.WriteString(strings.Repeat("-", 50) + "\n\n")
	summary.WriteString(p.ToSQL(false))

	return summary.String()
}

// ToJSON returns the plan as structured JSON
func (p *Plan) ToJSON() (string, error) {
	planJSON := p.convertToStructuredJSON()

	data, err := json.MarshalIndent(planJSON, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan to JSON: %w", err)
	}
	return string(data), nil
}

// ToSQL returns the statements as a script, optionally with a comment header
// per operation
func (p *Plan) ToSQL(includeComments bool) string {
	if !p.HasChanges() {
		return ""
	}
	return diff.RenderSteps(p.Steps, includeComments)
}

// ========== PRIVATE METHODS ==========

// writeDetailedChanges writes the changed addresses of one kind with plan symbols
func (p *Plan) writeDetailedChanges(summary *strings.Builder, objType string, objectChanges []ObjectChange, c *color.Color) {
	displayName := strings.ToUpper(objType[:1]) + strings.ReplaceAll(objType[1:], "_", " ")
	fmt.Fprintf(summary, "%s:\n", c.Bold(displayName))

	var changes []ObjectChange
	for _, change := range objectChanges {
		if change.Type == objType {
			changes = append(changes, change)
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Address < changes[j].Address
	})

	for _, change := range changes {
		fmt.Fprintf(summary, "  %s %s\n", c.PlanSymbol(change.Action), change.Address)
	}
	summary.WriteString("\n")
}

// convertToStructuredJSON groups the steps by the operation that produced them
func (p *Plan) convertToStructuredJSON() *PlanJSON {
	planJSON := &PlanJSON{
		Version:         version.PlanFormat(),
		TsschemaVersion: version.App(),
		CreatedAt:       p.CreatedAt.Truncate(time.Second),
		Mode:            p.Mode,
		Summary: PlanSummary{
			ByType: make(map[string]TypeSummary),
		},
		ObjectChanges: []ObjectChange{},
	}

	var last diff.Operation
	for _, step := range p.Steps {
		n := len(planJSON.ObjectChanges)
		if n > 0 && step.SourceChange != nil && step.SourceChange == last {
			planJSON.ObjectChanges[n-1].Statements = append(planJSON.ObjectChanges[n-1].Statements, step.SQL)
			continue
		}
		last = step.SourceChange
		planJSON.ObjectChanges = append(planJSON.ObjectChanges, ObjectChange{
			Address:    string(step.ObjectType) + "." + step.ObjectPath,
			Type:       string(step.ObjectType),
			Action:     string(step.Operation),
			Statements: []string{step.SQL},
		})
	}

	p.calculateSummary(planJSON)
	return planJSON
}

// calculateSummary counts the object changes per action and type
func (p *Plan) calculateSummary(planJSON *PlanJSON) {
	for _, change := range planJSON.ObjectChanges {
		typeSummary := planJSON.Summary.ByType[change.Type]
		switch diff.Action(change.Action) {
		case diff.ActionCreate:
			planJSON.Summary.Add++
			typeSummary.Add++
		case diff.ActionAlter:
			planJSON.Summary.Change++
			typeSummary.Change++
		case diff.ActionDrop:
			planJSON.Summary.Destroy++
			typeSummary.Destroy++
		}
		planJSON.Summary.ByType[change.Type] = typeSummary
	}
	planJSON.Summary.Total = planJSON.Summary.Add + planJSON.Summary.Change + planJSON.Summary.Destroy
}

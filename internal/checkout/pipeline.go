package checkout

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/checkout/steps"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type Pipeline struct {
	steps []steps.Step
}

func NewPipeline(cur currency.Unit, topic string) (Pipeline, error) {
	var p Pipeline

	pSteps, err := buildSteps(cur, topic)
	if err != nil {
		return p, fmt.Errorf("buildSteps: %w", err)
	}

	return Pipeline{
		steps: pSteps,
	}, nil
}

// Run executes the steps in order and stops at the first failure. It must be
// called inside a transaction: the steps leave partial state behind on error.
func (p Pipeline) Run(ctx context.Context, repos port.Repositories, dataCtx *steps.DataContext) error {
	for idx, step := range p.steps {
		if err := step.Run(ctx, repos, dataCtx); err != nil {
			return fmt.Errorf("step.Run[%d][%s]: %w", idx, step.Name(), err)
		}
	}

	return nil
}

func (p Pipeline) StepNames() []string {
	return lo.Map(p.steps, func(step steps.Step, _ int) string {
		return step.Name()
	})
}

func buildSteps(cur currency.Unit, topic string) ([]steps.Step, error) {
	results := []steps.Step{
		steps.NewLoadCart(),
		steps.NewValidateStock(),
	}

	createOrder, err := steps.NewCreateOrder(cur)
	if err != nil {
		return nil, fmt.Errorf("steps.NewCreateOrder: %w", err)
	}

	enqueueEvent, err := steps.NewEnqueueEvent(topic)
	if err != nil {
		return nil, fmt.Errorf("steps.NewEnqueueEvent: %w", err)
	}

	results = append(results,
		createOrder,
		steps.NewMaterializeLines(),
		steps.NewAssignTotal(),
		steps.NewRecordPayment(),
		steps.NewClearCart(),
		enqueueEvent,
	)

	return results, nil
}

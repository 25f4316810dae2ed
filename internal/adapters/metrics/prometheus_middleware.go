package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/cargoplanner-go/internal/application/common"
)

// outcomeReporter is implemented by responses that can succeed at the
// transport level yet still carry a domain failure
type outcomeReporter interface {
	Infeasible() bool
}

// PrometheusMiddleware records duration and outcome for every request sent
// through the mediator. Command names drop their package prefix:
// "*planner.ComputePlanCommand" becomes "ComputePlanCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		duration := time.Since(start).Seconds()

		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeError
		} else if r, ok := response.(outcomeReporter); ok && r.Infeasible() {
			outcome = OutcomeInfeasible
		}
		collector.RecordCommandExecution(extractCommandName(request), duration, outcome)

		return response, err
	}
}

func extractCommandName(request common.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

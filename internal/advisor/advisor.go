// Package advisor produces a plain-language explanation of a repair reserve
// calculation. Advice is strictly downstream of the calculation: failures are
// turned into advisory text and never touch the inputs or the result.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/pkg/format"
	"go.uber.org/zap"
)

const systemPrompt = "You are an advisor for Korean apartment owners' associations on long-term repair reserve funds (장기수선충당금). " +
	"Explain the calculation clearly in Korean, point out whether the household fee looks reasonable for the area and period, " +
	"and suggest what the owners should check next. Do not invent figures that are not in the request."

// Advisor explains a calculation.
type Advisor interface {
	Advise(ctx context.Context, in reserve.Inputs, res reserve.Result) (string, error)
}

// Completer is the part of the chat client a ChatAdvisor needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatAdvisor asks a chat model for advice.
type ChatAdvisor struct {
	client Completer
}

// NewChatAdvisor creates a ChatAdvisor backed by client.
func NewChatAdvisor(client Completer) *ChatAdvisor {
	return &ChatAdvisor{client: client}
}

// Advise implements Advisor.
func (c *ChatAdvisor) Advise(ctx context.Context, in reserve.Inputs, res reserve.Result) (string, error) {
	return c.client.Complete(ctx, systemPrompt, BuildPrompt(in, res))
}

// BuildPrompt describes the inputs and the rounded results in prose.
func BuildPrompt(in reserve.Inputs, res reserve.Result) string {
	var b strings.Builder

	b.WriteString("Repair reserve calculation\n\n")
	b.WriteString("Inputs:\n")
	if in.Mode == reserve.ModeAmount {
		fmt.Fprintf(&b, "- Cost basis: fixed amount for the period, %s\n", format.Won(in.PeriodAmount))
	} else {
		fmt.Fprintf(&b, "- Cost basis: %s of a total planned repair cost of %s\n",
			format.Rate(in.AccumulationRate), format.Won(in.TotalRepairCost))
	}
	if in.PeriodInputMode == reserve.PeriodRange && in.HasRange() {
		fmt.Fprintf(&b, "- Accumulation period: %d to %d, %s\n", in.StartYear, in.EndYear, format.Months(in.DurationMonths))
	} else {
		fmt.Fprintf(&b, "- Accumulation period: %s\n", format.Months(in.DurationMonths))
	}
	fmt.Fprintf(&b, "- Total supply area of the complex: %s\n", format.Area(in.TotalComplexArea))
	fmt.Fprintf(&b, "- Supply area of the household: %s\n", format.Area(in.HouseholdArea))

	b.WriteString("\nResults:\n")
	fmt.Fprintf(&b, "- Amount to accumulate over the period: %s\n", format.Won(res.PeriodTargetAmount))
	fmt.Fprintf(&b, "- Monthly total for the complex: %s\n", format.Won(res.MonthlyTotalTarget))
	fmt.Fprintf(&b, "- Monthly rate per square meter: %s\n", format.PerSqm(res.MonthlyRatePerSqm))
	fmt.Fprintf(&b, "- Monthly fee for the household: %s\n", format.Won(res.HouseholdMonthlyFee))

	b.WriteString("\nExplain what these numbers mean for the household in 4-6 sentences.")
	return b.String()
}

// Fallback is the advisory text shown when the advice service cannot answer.
func Fallback(res *reserve.Result) string {
	if res == nil {
		return "Enter the repair cost, period and areas to get a calculation before asking for advice."
	}
	return fmt.Sprintf("Advice is unavailable right now. Based on the calculation, the household pays %s per month (%s per square meter).",
		format.Won(res.HouseholdMonthlyFee), format.PerSqm(res.MonthlyRatePerSqm))
}

// Service wraps an Advisor so callers always get text back.
type Service struct {
	logger  *zap.Logger
	advisor Advisor
}

// NewService creates a Service. A nil advisor always answers with the fallback text.
func NewService(logger *zap.Logger, a Advisor) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, advisor: a}
}

// Advise returns advice for in and res. The boolean is false when the text is
// the fallback rather than generated advice.
func (s *Service) Advise(ctx context.Context, in reserve.Inputs, res *reserve.Result) (string, bool) {
	if res == nil {
		s.logger.Debug("advice requested without a result",
			zap.String("op", "advisor.Service.Advise"),
			zap.String("missing", string(reserve.Check(in))),
		)
		return Fallback(nil), false
	}
	if s.advisor == nil {
		return Fallback(res), false
	}

	text, err := s.advisor.Advise(ctx, in, *res)
	if err != nil {
		s.logger.Warn("advice generation failed",
			zap.String("op", "advisor.Service.Advise"),
			zap.Error(err),
		)
		return Fallback(res), false
	}
	return text, true
}

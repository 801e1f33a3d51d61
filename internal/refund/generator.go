// Package refund generates refund requests for eligible subscriptions.
//
// Failures are isolated per subscription: one vendor with no contact
// address, or one delivery error, never aborts the rest of the batch.
package refund

import (
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// Request is one outbound refund request, ready for delivery.
type Request struct {
	ID        string
	To        string
	Subject   string
	Body      string
	Amount    float64
	CreatedAt time.Time
}

// Sender delivers a rendered refund request.
type Sender interface {
	Send(req Request) error
}

var bodyTemplate = template.Must(template.New("refund").Parse(`Hello,

I recently signed up for {{.Name}} ({{.DaysSinceSignup}} day{{if ne .DaysSinceSignup 1}}s{{end}} ago) but have barely used the service. I would like to request a refund of my most recent charge of ${{printf "%.2f" .Cost}} from {{.LastCharged.Format "2006-01-02"}}.

Please let me know if you need any additional information to process this request.

Thank you,
{{.FromName}}
`))

// Generator renders and delivers refund requests.
type Generator struct {
	sender   Sender
	repo     storage.RefundRequestRepository
	fromName string
	logger   *slog.Logger
}

// NewGenerator creates a generator. The repository is optional; if nil,
// outcomes are not recorded.
func NewGenerator(sender Sender, repo storage.RefundRequestRepository, fromName string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if fromName == "" {
		fromName = "A customer"
	}
	return &Generator{sender: sender, repo: repo, fromName: fromName, logger: logger}
}

// Result summarizes a batch of refund requests.
type Result struct {
	Generated int
	Failed    int
	Errors    []error
}

// GenerateAll builds and delivers one request per refund-eligible
// subscription. Non-eligible entries in the input are skipped.
func (g *Generator) GenerateAll(runID int64, subs []subscription.Subscription) Result {
	var result Result

	for _, s := range subs {
		if !s.RefundEligible {
			continue
		}

		if err := g.generate(runID, s); err != nil {
			g.logger.Error("Failed to generate refund request", "subscription", s.Name, "error", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}

		g.logger.Info("Generated refund request", "subscription", s.Name, "amount", s.Cost)
		result.Generated++
	}

	return result
}

func (g *Generator) generate(runID int64, s subscription.Subscription) error {
	req, err := g.build(s)
	if err == nil {
		err = g.sender.Send(req)
	}

	g.record(runID, s, req, err)

	return err
}

// build renders the request for one subscription.
func (g *Generator) build(s subscription.Subscription) (Request, error) {
	if s.VendorEmail == "" {
		return Request{}, fmt.Errorf("no vendor email on file")
	}

	var body strings.Builder
	err := bodyTemplate.Execute(&body, struct {
		subscription.Subscription
		FromName string
	}{s, g.fromName})
	if err != nil {
		return Request{}, fmt.Errorf("failed to render request body: %w", err)
	}

	return Request{
		ID:        uuid.NewString(),
		To:        s.VendorEmail,
		Subject:   fmt.Sprintf("Refund request for %s subscription", s.Name),
		Body:      body.String(),
		Amount:    s.Cost,
		CreatedAt: time.Now(),
	}, nil
}

// record logs the outcome to storage; recording failures are logged but
// never surfaced, the audit trail must not break the batch.
func (g *Generator) record(runID int64, s subscription.Subscription, req Request, genErr error) {
	if g.repo == nil {
		return
	}

	rec := &storage.RefundRequest{
		ID:               req.ID,
		RunID:            runID,
		SubscriptionName: s.Name,
		Amount:           s.Cost,
		VendorEmail:      s.VendorEmail,
		Status:           "success",
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if genErr != nil {
		rec.Status = "failed"
		rec.ErrorMessage = genErr.Error()
	}

	if err := g.repo.SaveRefundRequest(rec); err != nil {
		g.logger.Warn("Failed to record refund request", "subscription", s.Name, "error", err)
	}
}
